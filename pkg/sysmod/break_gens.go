package sysmod

import (
	"fmt"
	"math"
	"os"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/logger"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/system"
)

// defaultDropThreshold is the remainder capacity, in MW, below which the
// leftover piece of a split generator is dropped instead of kept as an
// undersized unit.
const defaultDropThreshold = 2.0

// Reference maps a generator category to its reference record. The record's
// avg_capacity_MW entry is the target unit size.
type Reference map[string]map[string]any

// Options tunes BreakGenerators.
type Options struct {
	// SkipCategories lists categories to leave unsplit.
	SkipCategories []string
	// DropCapacityThreshold overrides the remainder drop threshold in MW.
	// Zero means the default of 2 MW.
	DropCapacityThreshold float64
}

// BreakGenerators splits every generator whose capacity exceeds its
// category's average unit size into unit-sized components named
// name_01, name_02, and so on. Each piece inherits the original's fields,
// supplemental attributes, and copies of its time series; the original is
// removed. reference is either a Reference map or a path to a JSON file
// holding a list of records keyed by "name".
func BreakGenerators(sys *system.System, reference any, opts *Options) error {
	if opts == nil {
		opts = &Options{}
	}
	threshold := opts.DropCapacityThreshold
	if threshold == 0 {
		threshold = defaultDropThreshold
	}
	skip := make(map[string]bool, len(opts.SkipCategories))
	for _, cat := range opts.SkipCategories {
		skip[cat] = true
	}

	refResult := normalizeReference(reference, "name")
	if refResult.IsErr() {
		return refResult.UnwrapErr()
	}
	ref := refResult.Unwrap()

	generators := sys.GetComponents(models.TypeGenerator, nil)
	split := 0
	for _, c := range generators {
		gen, ok := c.(*models.Generator)
		if !ok {
			continue
		}
		if gen.Category == "" || skip[gen.Category] {
			continue
		}
		record, ok := ref[gen.Category]
		if !ok {
			continue
		}
		avg, ok := floatEntry(record, "avg_capacity_MW")
		if !ok || avg <= 0 {
			continue
		}
		capacities := splitCapacity(gen.Capacity, avg, threshold)
		if capacities == nil {
			continue
		}
		if err := replaceWithUnits(sys, gen, capacities); err != nil {
			return err
		}
		split++
	}
	if split > 0 {
		logger.Info("split aggregated generators", zap.Int("generators", split))
	}
	return nil
}

// splitCapacity returns the unit capacities for one generator, or nil when
// the generator is too small to split. The remainder survives only at or
// above the drop threshold.
func splitCapacity(capacity, avg, threshold float64) []float64 {
	n := int(math.Floor(capacity / avg))
	if n == 0 {
		return nil
	}
	units := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		units = append(units, avg)
	}
	remainder := capacity - float64(n)*avg
	if remainder >= threshold {
		units = append(units, remainder)
	}
	return units
}

// replaceWithUnits swaps one generator for its unit-sized pieces,
// re-associating supplemental attributes and copied time series.
func replaceWithUnits(sys *system.System, gen *models.Generator, capacities []float64) error {
	attributes := sys.GetSupplementalAttributes(gen)
	series := sys.ListTimeSeries(gen)

	if err := sys.RemoveComponent(gen); err != nil {
		return err
	}
	for i, capacity := range capacities {
		unit := *gen
		unit.Name = fmt.Sprintf("%s_%02d", gen.Name, i+1)
		unit.Capacity = capacity
		if unit.Variant == models.GeneratorStorage {
			unit.EnergyCapacity = capacity * unit.StorageDuration
		}
		created := &unit
		if err := sys.AddComponent(created); err != nil {
			return err
		}
		for _, attr := range attributes {
			if err := sys.AddSupplementalAttribute(created, copyAttribute(attr)); err != nil {
				return err
			}
		}
		for _, ts := range series {
			if err := sys.AddTimeSeries(ts.Copy(), created); err != nil {
				return err
			}
		}
	}
	return nil
}

// copyAttribute clones a supplemental attribute so sibling units report
// their values independently.
func copyAttribute(attr any) any {
	if e, ok := attr.(*models.Emission); ok {
		return e.Copy()
	}
	return attr
}

// normalizeReference accepts the reference shapes callers pass: a Reference
// map, a generic category map, a list of records, or a JSON file path.
func normalizeReference(reference any, key string) result.Result[Reference] {
	switch ref := reference.(type) {
	case Reference:
		return result.Ok(ref)
	case map[string]map[string]any:
		return result.Ok(Reference(ref))
	case map[string]any:
		return normalizeCategoryMap(ref)
	case []any:
		return normalizeRecordList(ref, key)
	case []map[string]any:
		generic := make([]any, len(ref))
		for i, rec := range ref {
			generic[i] = rec
		}
		return normalizeRecordList(generic, key)
	case string:
		return loadReferenceFile(ref, key)
	default:
		return result.Err[Reference](errors.Newf(errors.ErrorTypeType,
			"unsupported reference data type %T", reference))
	}
}

func normalizeCategoryMap(raw map[string]any) result.Result[Reference] {
	ref := make(Reference, len(raw))
	for category, value := range raw {
		record, ok := value.(map[string]any)
		if !ok {
			logger.Warn("Skipping non-dict reference record",
				zap.String("category", category))
			continue
		}
		ref[category] = record
	}
	if len(ref) == 0 {
		return result.Err[Reference](errors.New(errors.ErrorTypeData,
			"No reference technologies found"))
	}
	return result.Ok(ref)
}

func normalizeRecordList(records []any, key string) result.Result[Reference] {
	deduped := deduplicateRecords(records, key)
	ref := make(Reference, len(deduped))
	for _, rec := range deduped {
		keyValue, hasKey := rec[key]
		if !hasKey || keyValue == nil {
			logger.Warn(fmt.Sprintf("Skipping reference record missing key '%s'", key))
			continue
		}
		ref[fmt.Sprintf("%v", keyValue)] = rec
	}
	if len(ref) == 0 {
		return result.Err[Reference](errors.New(errors.ErrorTypeData,
			"No reference technologies found"))
	}
	return result.Ok(ref)
}

func loadReferenceFile(path, key string) result.Result[Reference] {
	checked := coercePath(path)
	if checked.IsErr() {
		return result.Err[Reference](checked.UnwrapErr())
	}
	data, err := os.ReadFile(checked.Unwrap())
	if err != nil {
		return result.Err[Reference](errors.Wrap(err, errors.ErrorTypeFile,
			"failed to read reference file "+path))
	}
	var records []any
	if err := json.Unmarshal(data, &records); err != nil {
		// Files may also hold a category map instead of a record list.
		var byCategory map[string]any
		if err := json.Unmarshal(data, &byCategory); err != nil {
			return result.Err[Reference](errors.Wrap(err, errors.ErrorTypeParser,
				"failed to parse reference file "+path))
		}
		return normalizeCategoryMap(byCategory)
	}
	return normalizeRecordList(records, key)
}

func floatEntry(record map[string]any, key string) (float64, bool) {
	v, ok := record[key]
	if !ok || v == nil {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
