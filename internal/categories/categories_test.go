package categories

import "testing"

func TestValid(t *testing.T) {
	for _, name := range append(Expense(), Income()...) {
		if !Valid(name) {
			t.Errorf("expected %q to be valid", name)
		}
	}
	if Valid("Food") {
		t.Error("validation is case sensitive; Food should not be valid")
	}
	if Valid("crypto") {
		t.Error("crypto is not part of the taxonomy")
	}
}

func TestValidExpense(t *testing.T) {
	if !ValidExpense("food") {
		t.Error("food is an expense category")
	}
	if !ValidExpense(Other) {
		t.Error("other belongs to both sides")
	}
	if ValidExpense("salary") {
		t.Error("salary is income, not expense")
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"food", "food"},
		{"  Food ", "food"},
		{"GROCERIES", "groceries"},
		{"Fine Dining & Cocktails", Other},
		{"", Other},
	}
	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIcon(t *testing.T) {
	if Icon("food") != "utensils" {
		t.Errorf("unexpected icon for food: %q", Icon("food"))
	}
	if Icon("no-such-category") != Icon(Other) {
		t.Error("unknown categories fall back to the catch-all icon")
	}
}
