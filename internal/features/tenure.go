package features

import (
	"fmt"
	"time"

	"github.com/jonathan/candidate-matcher/internal/types"
)

// CalculateTenure sums whole months across all experiences and returns whole years.
// An experience without an end date runs until now.
func CalculateTenure(experiences []types.Experience, now time.Time) (int, error) {
	total := 0
	for i, exp := range experiences {
		months, err := experienceMonths(exp, now)
		if err != nil {
			return 0, &MalformedRecordError{
				Field:   fmt.Sprintf("experiences[%d]", i),
				Message: err.Error(),
			}
		}
		total += months
	}
	return total / 12, nil
}

func experienceMonths(exp types.Experience, now time.Time) (int, error) {
	if exp.StartDate == "" {
		return 0, fmt.Errorf("start_date is required")
	}
	start, err := time.Parse(types.DateLayout, exp.StartDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start_date %q", exp.StartDate)
	}

	end := now.UTC()
	if exp.EndDate != "" {
		end, err = time.Parse(types.DateLayout, exp.EndDate)
		if err != nil {
			return 0, fmt.Errorf("invalid end_date %q", exp.EndDate)
		}
	}
	if end.Before(start) {
		return 0, fmt.Errorf("end_date %s is before start_date %s", end.Format(types.DateLayout), exp.StartDate)
	}
	return monthsBetween(start, end), nil
}

// monthsBetween counts completed calendar months from start to end (end >= start).
// A month only completes once the day of month reaches the starting day.
func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}
