package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/row"
)

// FieldGetter resolves one component field from a raw row. Getters never
// panic: missing fields, unknown enum strings, and faulty rows all come back
// as failed results so the construction engine can accumulate them per row.
type FieldGetter func(ctx *Context, r any) result.Result[any]

// stringField fetches a required field as a non-empty string.
func stringField(r any, name string) result.Result[string] {
	v, ok, err := row.Lookup(r, name)
	if err != nil {
		return result.Err[string](errors.Wrap(err, errors.ErrorTypeInternal,
			"row access failed for field "+name))
	}
	if !ok || v == nil {
		return result.Err[string](errors.Newf(errors.ErrorTypeMissingField,
			"required field %s is missing", name))
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return result.Err[string](errors.Newf(errors.ErrorTypeMissingField,
			"required field %s is empty", name))
	}
	return result.Ok(s)
}

// optionalString fetches a field as a string, reporting presence. Faulty
// rows are an error; absent or nil fields are simply not present.
func optionalString(r any, name string) (string, bool, error) {
	v, ok, err := row.Lookup(r, name)
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrorTypeInternal,
			"row access failed for field "+name)
	}
	if !ok || v == nil {
		return "", false, nil
	}
	s := strings.TrimSpace(fmt.Sprintf("%v", v))
	if s == "" {
		return "", false, nil
	}
	return s, true, nil
}

// toFloat coerces the numeric shapes rows carry into a float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// regionIdentifier resolves the region name of a row from the column aliases
// ReEDS files use, in the given preference order.
func regionIdentifier(r any, order ...string) result.Result[string] {
	var rowErr error
	for _, field := range order {
		s, ok, err := optionalString(r, field)
		if err != nil {
			rowErr = err
			continue
		}
		if ok {
			return result.Ok(s)
		}
	}
	if rowErr != nil {
		return result.Err[string](rowErr)
	}
	return result.Err[string](errors.Newf(errors.ErrorTypeMissingField,
		"no region identifier among fields %s", strings.Join(order, ", ")))
}

// BuildRegionName resolves the region name, trying region, region_id, then
// the raw ReEDS *r column.
func BuildRegionName(ctx *Context, r any) result.Result[any] {
	return widen(regionIdentifier(r, "region", "region_id", "*r"))
}

// BuildRegionDescription builds a human-readable region description,
// preferring the region_id column.
func BuildRegionDescription(ctx *Context, r any) result.Result[any] {
	id := regionIdentifier(r, "region_id", "region", "*r")
	if id.IsErr() {
		return result.Err[any](id.UnwrapErr())
	}
	return result.Ok[any]("ReEDS region " + id.Unwrap())
}

// LookupRegion resolves the row's region field to a registered Region.
func LookupRegion(ctx *Context, r any) result.Result[any] {
	return lookupRegionField(ctx, r, "region")
}

// LookupFromRegion resolves the from_region field to a registered Region.
func LookupFromRegion(ctx *Context, r any) result.Result[any] {
	return lookupRegionField(ctx, r, "from_region")
}

// LookupToRegion resolves the to_region field to a registered Region.
func LookupToRegion(ctx *Context, r any) result.Result[any] {
	return lookupRegionField(ctx, r, "to_region")
}

func lookupRegionField(ctx *Context, r any, field string) result.Result[any] {
	name := stringField(r, field)
	if name.IsErr() {
		return result.Err[any](name.UnwrapErr())
	}
	c, err := ctx.System.GetComponent(models.TypeRegion, name.Unwrap())
	if err != nil {
		return result.Err[any](err)
	}
	return result.Ok[any](c)
}

// LookupReserveRegion resolves the row's region field to a registered
// ReserveRegion.
func LookupReserveRegion(ctx *Context, r any) result.Result[any] {
	name := stringField(r, "region")
	if name.IsErr() {
		return result.Err[any](name.UnwrapErr())
	}
	c, err := ctx.System.GetComponent(models.TypeReserveRegion, name.Unwrap())
	if err != nil {
		return result.Err[any](err)
	}
	return result.Ok[any](c)
}

// BuildGeneratorName composes the generator name as technology_vintage_region,
// omitting the vintage segment when the row has none.
func BuildGeneratorName(ctx *Context, r any) result.Result[any] {
	tech := stringField(r, "technology")
	if tech.IsErr() {
		return result.Err[any](tech.UnwrapErr())
	}
	region := stringField(r, "region")
	if region.IsErr() {
		return result.Err[any](region.UnwrapErr())
	}
	vintage, hasVintage, err := optionalString(r, "vintage")
	if err != nil {
		return result.Err[any](err)
	}
	if hasVintage {
		return result.Ok[any](tech.Unwrap() + "_" + vintage + "_" + region.Unwrap())
	}
	return result.Ok[any](tech.Unwrap() + "_" + region.Unwrap())
}

// BuildLoadName composes the demand component name as region_load.
func BuildLoadName(ctx *Context, r any) result.Result[any] {
	region := stringField(r, "region")
	if region.IsErr() {
		return result.Err[any](region.UnwrapErr())
	}
	return result.Ok[any](region.Unwrap() + "_load")
}

// BuildReserveName composes the reserve name as region_reservetype.
func BuildReserveName(ctx *Context, r any) result.Result[any] {
	region := stringField(r, "region")
	if region.IsErr() {
		return result.Err[any](region.UnwrapErr())
	}
	rt := stringField(r, "reserve_type")
	if rt.IsErr() {
		return result.Err[any](rt.UnwrapErr())
	}
	return result.Ok[any](region.Unwrap() + "_" + rt.Unwrap())
}

// BuildTransmissionInterfaceName composes the interface name as the two
// region names joined by "||", ordered lexically so either row orientation
// of the same corridor produces one name.
func BuildTransmissionInterfaceName(ctx *Context, r any) result.Result[any] {
	from := stringField(r, "from_region")
	if from.IsErr() {
		return result.Err[any](from.UnwrapErr())
	}
	to := stringField(r, "to_region")
	if to.IsErr() {
		return result.Err[any](to.UnwrapErr())
	}
	a, b := from.Unwrap(), to.Unwrap()
	if b < a {
		a, b = b, a
	}
	return result.Ok[any](a + "||" + b)
}

// BuildTransmissionLineName composes the line name as from_to_trtype in row
// order.
func BuildTransmissionLineName(ctx *Context, r any) result.Result[any] {
	from := stringField(r, "from_region")
	if from.IsErr() {
		return result.Err[any](from.UnwrapErr())
	}
	to := stringField(r, "to_region")
	if to.IsErr() {
		return result.Err[any](to.UnwrapErr())
	}
	trtype := stringField(r, "trtype")
	if trtype.IsErr() {
		return result.Err[any](trtype.UnwrapErr())
	}
	return result.Ok[any](from.Unwrap() + "_" + to.Unwrap() + "_" + trtype.Unwrap())
}

// LookupTransmissionInterface resolves the row's region pair to the
// registered interface component.
func LookupTransmissionInterface(ctx *Context, r any) result.Result[any] {
	name := BuildTransmissionInterfaceName(ctx, r)
	if name.IsErr() {
		return result.Err[any](name.UnwrapErr())
	}
	c, err := safeGetComponent(ctx, models.TypeInterface, name.Unwrap().(string))
	if err != nil {
		return result.Err[any](err)
	}
	return result.Ok[any](c)
}

// safeGetComponent shields getter callers from arena implementations that
// panic during lookup.
func safeGetComponent(ctx *Context, typeName, name string) (c models.Component, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, errors.Newf(errors.ErrorTypeInternal,
				"component lookup panicked for %s %s: %v", typeName, name, r)
		}
	}()
	return ctx.System.GetComponent(typeName, name)
}

// BuildTransmissionFlow builds symmetric flow limits from the row's capacity
// column, falling back to value.
func BuildTransmissionFlow(ctx *Context, r any) result.Result[any] {
	for _, field := range []string{"capacity", "value"} {
		v, ok, err := row.Lookup(r, field)
		if err != nil {
			return result.Err[any](errors.Wrap(err, errors.ErrorTypeInternal,
				"row access failed for field "+field))
		}
		if !ok || v == nil {
			continue
		}
		f, numeric := toFloat(v)
		if !numeric {
			return result.Err[any](errors.Newf(errors.ErrorTypeType,
				"field %s is not numeric: %v", field, v))
		}
		limits, err := models.NewFromToToFrom(f, f)
		if err != nil {
			return result.Err[any](err)
		}
		return result.Ok[any](limits)
	}
	return result.Err[any](errors.New(errors.ErrorTypeMissingField,
		"no capacity or value field for flow limits"))
}

// ComputeIsDispatchable reports whether the row's technology belongs to the
// dispatchable hydro category. A present-but-empty technology is simply not
// dispatchable.
func ComputeIsDispatchable(ctx *Context, r any) result.Result[any] {
	v, ok, err := row.Lookup(r, "technology")
	if err != nil {
		return result.Err[any](errors.Wrap(err, errors.ErrorTypeInternal,
			"row access failed for field technology"))
	}
	if !ok {
		return result.Err[any](errors.New(errors.ErrorTypeMissingField,
			"required field technology is missing"))
	}
	if v == nil {
		return result.Ok[any](false)
	}
	tech := fmt.Sprintf("%v", v)
	return result.Ok[any](TechMatchesCategory(tech, "hydro_dispatchable", ctx.Tables.TechCategories))
}

// GetStorageDuration returns the row's storage duration in hours, defaulting
// to one hour.
func GetStorageDuration(ctx *Context, r any) result.Result[any] {
	return numericWithDefault(r, "storage_duration", 1.0)
}

// GetRoundTripEfficiency returns the row's storage round-trip efficiency,
// defaulting to one.
func GetRoundTripEfficiency(ctx *Context, r any) result.Result[any] {
	return numericWithDefault(r, "round_trip_efficiency", 1.0)
}

func numericWithDefault(r any, field string, def float64) result.Result[any] {
	v, ok, err := row.Lookup(r, field)
	if err != nil {
		return result.Err[any](errors.Wrap(err, errors.ErrorTypeInternal,
			"row access failed for field "+field))
	}
	if !ok || v == nil {
		return result.Ok[any](def)
	}
	f, numeric := toFloat(v)
	if !numeric {
		return result.Err[any](errors.Newf(errors.ErrorTypeType,
			"field %s is not numeric: %v", field, v))
	}
	return result.Ok[any](f)
}

// GetFuelType normalizes the row's fuel type to lower case and validates it
// against the known fuel set.
func GetFuelType(ctx *Context, r any) result.Result[any] {
	raw := stringField(r, "fuel_type")
	if raw.IsErr() {
		return result.Err[any](raw.UnwrapErr())
	}
	fuel := strings.ToLower(raw.Unwrap())
	if _, known := models.KnownFuelTypes[fuel]; !known {
		return result.Err[any](errors.Newf(errors.ErrorTypeUnknownEnum,
			"unknown fuel type: %s", fuel))
	}
	return result.Ok[any](fuel)
}

// ResolveReserveType maps the row's reserve_type field to the enumeration.
func ResolveReserveType(ctx *Context, r any) result.Result[any] {
	raw := stringField(r, "reserve_type")
	if raw.IsErr() {
		return result.Err[any](raw.UnwrapErr())
	}
	return widen(MapReserveType(raw.Unwrap()))
}

// ResolveReserveDirection maps the row's direction field to the enumeration.
func ResolveReserveDirection(ctx *Context, r any) result.Result[any] {
	raw := stringField(r, "direction")
	if raw.IsErr() {
		return result.Err[any](raw.UnwrapErr())
	}
	return widen(MapReserveDirection(raw.Unwrap()))
}

// ResolveEmissionType maps the row's emission_type field to the enumeration.
func ResolveEmissionType(ctx *Context, r any) result.Result[any] {
	raw := stringField(r, "emission_type")
	if raw.IsErr() {
		return result.Err[any](raw.UnwrapErr())
	}
	return widen(MapEmissionType(raw.Unwrap()))
}

// ResolveEmissionSource maps the row's emission_source field to the
// enumeration. A present-but-nil source defaults to combustion; an absent
// field is an error.
func ResolveEmissionSource(ctx *Context, r any) result.Result[any] {
	v, ok, err := row.Lookup(r, "emission_source")
	if err != nil {
		return result.Err[any](errors.Wrap(err, errors.ErrorTypeInternal,
			"row access failed for field emission_source"))
	}
	if !ok {
		return result.Err[any](errors.New(errors.ErrorTypeMissingField,
			"required field emission_source is missing"))
	}
	if v == nil {
		return widen(MapEmissionSource(nil))
	}
	s := fmt.Sprintf("%v", v)
	return widen(MapEmissionSource(&s))
}

// widen erases a typed result into the any-valued shape FieldGetter uses.
func widen[T any](r result.Result[T]) result.Result[any] {
	if r.IsErr() {
		return result.Err[any](r.UnwrapErr())
	}
	return result.Ok[any](r.Unwrap())
}
