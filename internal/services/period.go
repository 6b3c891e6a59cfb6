package services

import (
	"time"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/models"
)

// PeriodEnd returns the end of a budget window starting at start and running
// for count units. Monthly and yearly arithmetic clamps the day of month to
// the length of the target month, so a window starting Jan 31 ends on the
// last day of February instead of spilling into March.
func PeriodEnd(start time.Time, unit models.BudgetPeriod, count int) (time.Time, error) {
	if count < 1 {
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "period count must be at least 1")
	}

	switch unit {
	case models.BudgetPeriodDaily:
		return start.AddDate(0, 0, count), nil
	case models.BudgetPeriodWeekly:
		return start.AddDate(0, 0, 7*count), nil
	case models.BudgetPeriodMonthly:
		return addMonthsClamped(start, count), nil
	case models.BudgetPeriodYearly:
		return addMonthsClamped(start, 12*count), nil
	default:
		return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidPeriod, "period unit must be daily, weekly, monthly, or yearly")
	}
}

// addMonthsClamped adds months to t, clamping the day to the target month's
// last day rather than letting time.AddDate normalize Jan 31 into March.
func addMonthsClamped(t time.Time, months int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + months
	year := y + total/12
	month := time.Month(total%12 + 1)
	if last := daysInMonth(year, month); d > last {
		d = last
	}
	return time.Date(year, month, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
