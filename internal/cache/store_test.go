package cache

import (
	"testing"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestStoreGetSet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewStore[payload](db)

	if _, hit, err := s.Get("missing"); err != nil || hit {
		t.Errorf("expected a clean miss, got hit=%v err=%v", hit, err)
	}

	if err := s.Set("a", payload{Name: "first", N: 1}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, hit, err := s.Get("a")
	if err != nil || !hit {
		t.Fatalf("expected a hit, got hit=%v err=%v", hit, err)
	}
	if got.Name != "first" || got.N != 1 {
		t.Errorf("unexpected value %+v", got)
	}
}

func TestStoreUpsert(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewStore[payload](db)

	if err := s.Set("a", payload{Name: "first"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Set("a", payload{Name: "second"}); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, hit, err := s.Get("a")
	if err != nil || !hit {
		t.Fatalf("expected a hit, got hit=%v err=%v", hit, err)
	}
	if got.Name != "second" {
		t.Errorf("expected the overwritten value, got %+v", got)
	}

	var count int64
	if err := db.Model(&models.CacheEntry{}).Where("key = ?", "a").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single row after upsert, got %d", count)
	}
}

func TestStoreDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewStore[payload](db)

	if err := s.Set("a", payload{Name: "first"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Delete("a"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, hit, _ := s.Get("a"); hit {
		t.Error("expected the entry to be gone")
	}
	if err := s.Delete("a"); err != nil {
		t.Errorf("expected idempotent delete, got %v", err)
	}
}

func TestStoreStaleShapeReadsAsMiss(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	s := NewStore[payload](db)

	entry := models.CacheEntry{Key: "a", Value: "not json at all"}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, hit, err := s.Get("a"); err != nil || hit {
		t.Errorf("expected an unreadable entry to read as a miss, got hit=%v err=%v", hit, err)
	}
}
