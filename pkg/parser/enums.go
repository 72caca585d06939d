// Package parser translates the tabular output of a ReEDS run into a typed
// component system. It owns the staged builder, the declarative construction
// rules, row getters, and the dataset preparation pipeline.
package parser

import (
	"strings"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
)

// MapReserveType resolves a reserve product label, case-insensitively.
func MapReserveType(value string) result.Result[models.ReserveType] {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "SPINNING":
		return result.Ok(models.ReserveTypeSpinning)
	case "FLEXIBILITY":
		return result.Ok(models.ReserveTypeFlexibility)
	case "REGULATION":
		return result.Ok(models.ReserveTypeRegulation)
	default:
		return result.Err[models.ReserveType](errors.Newf(errors.ErrorTypeUnknownEnum,
			"Unknown reserve type: %s", value))
	}
}

// MapReserveDirection resolves a reserve direction label, case-insensitively.
func MapReserveDirection(value string) result.Result[models.ReserveDirection] {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "up":
		return result.Ok(models.ReserveDirectionUp)
	case "down":
		return result.Ok(models.ReserveDirectionDown)
	default:
		return result.Err[models.ReserveDirection](errors.Newf(errors.ErrorTypeUnknownEnum,
			"Unknown direction: %s", value))
	}
}

// MapEmissionType resolves a pollutant label, case-insensitively and
// ignoring surrounding whitespace.
func MapEmissionType(value string) result.Result[models.EmissionType] {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "CO2":
		return result.Ok(models.EmissionTypeCO2)
	case "CO2E":
		return result.Ok(models.EmissionTypeCO2E)
	case "SO2":
		return result.Ok(models.EmissionTypeSO2)
	case "NOX":
		return result.Ok(models.EmissionTypeNOx)
	case "CH4":
		return result.Ok(models.EmissionTypeCH4)
	case "N2O":
		return result.Ok(models.EmissionTypeN2O)
	default:
		return result.Err[models.EmissionType](errors.Newf(errors.ErrorTypeUnknownEnum,
			"Unknown emission type: %s", value))
	}
}

// MapEmissionSource resolves an emission accounting stage by keyword. ReEDS
// labels vary ("precombustion", "upstream CH4", "process emissions"), so
// matching is by substring with the precombustion keywords checked before
// "combustion", which they contain. A nil or empty value defaults to
// combustion.
func MapEmissionSource(value *string) result.Result[models.EmissionSource] {
	if value == nil {
		return result.Ok(models.EmissionSourceCombustion)
	}
	v := strings.ToLower(strings.TrimSpace(*value))
	if v == "" {
		return result.Ok(models.EmissionSourceCombustion)
	}
	switch {
	case strings.Contains(v, "precombustion"),
		strings.Contains(v, "process"),
		strings.Contains(v, "upstream"):
		return result.Ok(models.EmissionSourcePrecombustion)
	case strings.Contains(v, "combustion"):
		return result.Ok(models.EmissionSourceCombustion)
	default:
		return result.Err[models.EmissionSource](errors.Newf(errors.ErrorTypeUnknownEnum,
			"Unknown emission source: %s", *value))
	}
}
