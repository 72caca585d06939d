package parser

import (
	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
)

// ReserveContribution is one component's input to a reserve requirement: its
// capacity and its hourly profile. Loads contribute their profile directly
// and ignore Capacity.
type ReserveContribution struct {
	Capacity   float64
	TimeSeries []float64
}

// CalculateReserveRequirement computes the hourly reserve requirement as the
// sum of the wind, solar, and load contributions scaled by their fractions.
// Contributions without a profile are skipped; when profiles disagree on
// length the shortest wins. An all-zero requirement is an error, so callers
// never register degenerate reserve products.
func CalculateReserveRequirement(
	wind, solar, loads []ReserveContribution,
	hours int,
	windFraction, solarFraction, loadFraction float64,
) result.Result[[]float64] {
	length := hours
	usable := func(contributions []ReserveContribution) []ReserveContribution {
		var out []ReserveContribution
		for _, c := range contributions {
			if len(c.TimeSeries) == 0 {
				continue
			}
			if len(c.TimeSeries) < length {
				length = len(c.TimeSeries)
			}
			out = append(out, c)
		}
		return out
	}
	windOK := usable(wind)
	solarOK := usable(solar)
	loadsOK := usable(loads)

	if length <= 0 {
		return result.Err[[]float64](errors.New(errors.ErrorTypeData,
			"Reserve requirement is zero"))
	}

	requirement := make([]float64, length)
	for h := 0; h < length; h++ {
		var total float64
		for _, c := range windOK {
			total += windFraction * c.Capacity * c.TimeSeries[h]
		}
		for _, c := range solarOK {
			total += solarFraction * c.Capacity * c.TimeSeries[h]
		}
		for _, c := range loadsOK {
			total += loadFraction * c.TimeSeries[h]
		}
		requirement[h] = total
	}

	nonZero := false
	for _, v := range requirement {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		return result.Err[[]float64](errors.New(errors.ErrorTypeData,
			"Reserve requirement is zero"))
	}
	return result.Ok(requirement)
}
