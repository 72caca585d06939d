package frame

import (
	"time"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
)

// daysInMonth returns the calendar length of each month of the year,
// accounting for leap years.
func daysInMonth(year int) [12]int {
	var days [12]int
	for m := time.January; m <= time.December; m++ {
		days[m-1] = time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
	}
	return days
}

// HoursInYear returns 8784 for leap years and 8760 otherwise.
func HoursInYear(year int) int {
	days := daysInMonth(year)
	total := 0
	for _, d := range days {
		total += d
	}
	return total * 24
}

// MonthlyToHourly expands twelve monthly values into an hourly series for the
// given calendar year, repeating each month's value across its hours.
func MonthlyToHourly(year int, monthly []float64) ([]float64, error) {
	if len(monthly) != 12 {
		return nil, errors.Newf(errors.ErrorTypeData,
			"expected 12 monthly values, got %d", len(monthly))
	}
	days := daysInMonth(year)
	hourly := make([]float64, 0, HoursInYear(year))
	for m, value := range monthly {
		for h := 0; h < days[m]*24; h++ {
			hourly = append(hourly, value)
		}
	}
	return hourly, nil
}
