// Package categories holds the static income/expense taxonomy used to
// classify transactions and budgets, with icon names for the client.
package categories

import "strings"

// Other is the fallback bucket for anything the taxonomy does not name.
const Other = "other"

var expense = []string{
	"food",
	"groceries",
	"transport",
	"housing",
	"utilities",
	"health",
	"entertainment",
	"shopping",
	"education",
	"travel",
	"subscriptions",
	Other,
}

var income = []string{
	"salary",
	"business",
	"investments",
	"gifts",
	"refunds",
	Other,
}

var icons = map[string]string{
	"food":          "utensils",
	"groceries":     "shopping-cart",
	"transport":     "bus",
	"housing":       "home",
	"utilities":     "plug",
	"health":        "heart-pulse",
	"entertainment": "film",
	"shopping":      "shopping-bag",
	"education":     "graduation-cap",
	"travel":        "plane",
	"subscriptions": "repeat",
	"salary":        "briefcase",
	"business":      "building",
	"investments":   "trending-up",
	"gifts":         "gift",
	"refunds":       "rotate-ccw",
	Other:           "tag",
}

// Expense returns the expense category names.
func Expense() []string {
	out := make([]string, len(expense))
	copy(out, expense)
	return out
}

// Income returns the income category names.
func Income() []string {
	out := make([]string, len(income))
	copy(out, income)
	return out
}

// Valid reports whether name is part of the taxonomy (either side).
func Valid(name string) bool {
	_, ok := icons[name]
	return ok
}

// ValidExpense reports whether name is an expense category.
func ValidExpense(name string) bool {
	for _, c := range expense {
		if c == name {
			return true
		}
	}
	return false
}

// Icon returns the icon name for a category, falling back to the
// catch-all icon for unknown names.
func Icon(name string) string {
	if icon, ok := icons[name]; ok {
		return icon
	}
	return icons[Other]
}

// Normalize lowercases and trims name and maps anything outside the
// taxonomy to the catch-all category. Used for AI-extracted categories.
func Normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if Valid(n) {
		return n
	}
	return Other
}
