package services

import (
	"testing"
	"time"

	"fintrack/internal/models"
	"fintrack/internal/testutil"
)

func TestPeriodEnd(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("daily", func(t *testing.T) {
		end, err := PeriodEnd(date(2025, time.March, 10), models.BudgetPeriodDaily, 5)
		testutil.AssertNoError(t, err)
		if !end.Equal(date(2025, time.March, 15)) {
			t.Errorf("expected 2025-03-15, got %v", end)
		}
	})

	t.Run("weekly", func(t *testing.T) {
		end, err := PeriodEnd(date(2025, time.March, 10), models.BudgetPeriodWeekly, 2)
		testutil.AssertNoError(t, err)
		if !end.Equal(date(2025, time.March, 24)) {
			t.Errorf("expected 2025-03-24, got %v", end)
		}
	})

	t.Run("monthly", func(t *testing.T) {
		end, err := PeriodEnd(date(2025, time.March, 10), models.BudgetPeriodMonthly, 1)
		testutil.AssertNoError(t, err)
		if !end.Equal(date(2025, time.April, 10)) {
			t.Errorf("expected 2025-04-10, got %v", end)
		}
	})

	t.Run("monthly_clamps_to_short_month", func(t *testing.T) {
		// Jan 31 + 1 month lands on the last day of February, not March 3.
		end, err := PeriodEnd(date(2025, time.January, 31), models.BudgetPeriodMonthly, 1)
		testutil.AssertNoError(t, err)
		if !end.Equal(date(2025, time.February, 28)) {
			t.Errorf("expected 2025-02-28, got %v", end)
		}
	})

	t.Run("monthly_clamps_in_leap_year", func(t *testing.T) {
		end, err := PeriodEnd(date(2024, time.January, 31), models.BudgetPeriodMonthly, 1)
		testutil.AssertNoError(t, err)
		if !end.Equal(date(2024, time.February, 29)) {
			t.Errorf("expected 2024-02-29, got %v", end)
		}
	})

	t.Run("monthly_multi_count_crosses_year", func(t *testing.T) {
		end, err := PeriodEnd(date(2025, time.November, 15), models.BudgetPeriodMonthly, 3)
		testutil.AssertNoError(t, err)
		if !end.Equal(date(2026, time.February, 15)) {
			t.Errorf("expected 2026-02-15, got %v", end)
		}
	})

	t.Run("yearly", func(t *testing.T) {
		end, err := PeriodEnd(date(2025, time.June, 1), models.BudgetPeriodYearly, 2)
		testutil.AssertNoError(t, err)
		if !end.Equal(date(2027, time.June, 1)) {
			t.Errorf("expected 2027-06-01, got %v", end)
		}
	})

	t.Run("yearly_from_leap_day", func(t *testing.T) {
		end, err := PeriodEnd(date(2024, time.February, 29), models.BudgetPeriodYearly, 1)
		testutil.AssertNoError(t, err)
		if !end.Equal(date(2025, time.February, 28)) {
			t.Errorf("expected 2025-02-28, got %v", end)
		}
	})

	t.Run("zero_count", func(t *testing.T) {
		_, err := PeriodEnd(date(2025, time.March, 10), models.BudgetPeriodMonthly, 0)
		testutil.AssertAppError(t, err, "INVALID_PERIOD")
	})

	t.Run("unknown_unit", func(t *testing.T) {
		_, err := PeriodEnd(date(2025, time.March, 10), models.BudgetPeriod("fortnightly"), 1)
		testutil.AssertAppError(t, err, "INVALID_PERIOD")
	})
}
