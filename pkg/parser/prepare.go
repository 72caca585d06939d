package parser

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/config"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/frame"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/logger"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
)

// prepareGeneratorDataset assembles the unified generator table: the
// capacity dataset filtered by excluded technologies, enriched from the
// optional datasets, with category columns attached. Optional datasets that
// are malformed are skipped with a warning rather than failing the build.
func prepareGeneratorDataset(
	capacity *frame.LazyFrame,
	optional map[string]*frame.LazyFrame,
	excluded []string,
	categories config.TechCategories,
) result.Result[*frame.Frame] {
	if capacity == nil {
		return result.Err[*frame.Frame](errors.New(errors.ErrorTypeParser, "No capacity data"))
	}
	data, err := capacity.Collect()
	if err != nil {
		return result.Err[*frame.Frame](err)
	}

	excludedSet := make(map[string]bool, len(excluded))
	for _, tech := range excluded {
		excludedSet[tech] = true
	}
	data = data.Filter(func(rec frame.Record) bool {
		tech, _ := rec["technology"].(string)
		return !excludedSet[tech]
	})
	if data.IsEmpty() {
		return result.Err[*frame.Frame](errors.New(errors.ErrorTypeParser,
			"All generators were excluded"))
	}

	data = joinFuelTechMap(data, optional["fuel_tech_map"])
	data = coalesceJoin(data, optional["storage_duration_out"], "storage_duration",
		[]string{"technology", "region"})
	data = pivotConsumeCharacteristics(data, optional["consume_characteristics"])

	data = data.WithColumn("categories", func(rec frame.Record) any {
		tech, _ := rec["technology"].(string)
		matches := GetTechnologyCategories(tech, categories).UnwrapOr(nil)
		if matches == nil {
			matches = []string{}
		}
		return matches
	})
	data = data.WithColumn("category", func(rec frame.Record) any {
		matches, _ := rec["categories"].([]string)
		if len(matches) == 0 {
			return nil
		}
		return matches[0]
	})
	return result.Ok(data)
}

// joinFuelTechMap attaches the fuel_type column keyed by technology. A map
// lacking the technology column is skipped.
func joinFuelTechMap(data *frame.Frame, fuelMap *frame.LazyFrame) *frame.Frame {
	if fuelMap == nil {
		return data
	}
	fuels, err := fuelMap.Collect()
	if err != nil || !fuels.HasColumn("technology") || !fuels.HasColumn("fuel_type") {
		logger.Warn("skipping fuel_tech_map join", zap.Error(err))
		return data
	}
	byTech := make(map[string]any, fuels.NumRows())
	for _, rec := range fuels.Records() {
		tech, _ := rec["technology"].(string)
		byTech[tech] = rec["fuel_type"]
	}
	return data.WithColumn("fuel_type", func(rec frame.Record) any {
		if existing, ok := rec["fuel_type"]; ok && existing != nil {
			return existing
		}
		tech, _ := rec["technology"].(string)
		return byTech[tech]
	})
}

// coalesceJoin fills nil values of column from the right dataset, matched on
// the key columns. Right datasets missing the keys or the column are skipped.
func coalesceJoin(data *frame.Frame, right *frame.LazyFrame, column string, keys []string) *frame.Frame {
	if right == nil {
		return data
	}
	rf, err := right.Collect()
	if err != nil {
		logger.Warn("skipping optional join", zap.String("column", column), zap.Error(err))
		return data
	}
	if !rf.HasColumn(column) {
		return data
	}
	for _, key := range keys {
		if !rf.HasColumn(key) {
			logger.Warn("skipping optional join, key column missing",
				zap.String("column", column), zap.String("key", key))
			return data
		}
	}

	index := make(map[string]any, rf.NumRows())
	for _, rec := range rf.Records() {
		index[recordKey(rec, keys)] = rec[column]
	}
	return data.WithColumn(column, func(rec frame.Record) any {
		if existing, ok := rec[column]; ok && existing != nil {
			return existing
		}
		return index[recordKey(rec, keys)]
	})
}

func recordKey(rec frame.Record, keys []string) string {
	out := ""
	for i, key := range keys {
		if i > 0 {
			out += "\x1f"
		}
		out += fmt.Sprintf("%v", rec[key])
	}
	return out
}

// pivotConsumeCharacteristics widens the long-format consuming-technology
// table (technology, parameter, value) into per-parameter columns.
func pivotConsumeCharacteristics(data *frame.Frame, consume *frame.LazyFrame) *frame.Frame {
	if consume == nil {
		return data
	}
	cf, err := consume.Collect()
	if err != nil || !cf.HasColumn("technology") || !cf.HasColumn("parameter") || !cf.HasColumn("value") {
		logger.Warn("skipping consume_characteristics join", zap.Error(err))
		return data
	}

	// parameter name -> technology -> value
	params := make(map[string]map[string]any)
	for _, rec := range cf.Records() {
		param, _ := rec["parameter"].(string)
		tech, _ := rec["technology"].(string)
		if param == "" || tech == "" {
			continue
		}
		if params[param] == nil {
			params[param] = make(map[string]any)
		}
		params[param][tech] = rec["value"]
	}
	for param, byTech := range params {
		values := byTech
		data = data.WithColumn(param, func(rec frame.Record) any {
			tech, _ := rec["technology"].(string)
			return values[tech]
		})
	}
	return data
}

// PrepareGeneratorInputs builds the unified generator table and splits it
// into the variable-resource rows, marked is_aggregated, and the rest.
func PrepareGeneratorInputs(
	capacity *frame.LazyFrame,
	optional map[string]*frame.LazyFrame,
	excluded []string,
	categories config.TechCategories,
	variableCategories []string,
) result.Result[[2]*frame.Frame] {
	prepared := prepareGeneratorDataset(capacity, optional, excluded, categories)
	if prepared.IsErr() {
		return result.Err[[2]*frame.Frame](prepared.UnwrapErr())
	}
	data := prepared.Unwrap()

	variableSet := make(map[string]bool, len(variableCategories))
	for _, cat := range variableCategories {
		variableSet[cat] = true
	}
	isVariable := func(rec frame.Record) bool {
		matches, _ := rec["categories"].([]string)
		for _, cat := range matches {
			if variableSet[cat] {
				return true
			}
		}
		return false
	}

	variable := data.Filter(isVariable).
		WithColumn("is_aggregated", func(frame.Record) any { return true })
	nonVariable := data.Filter(func(rec frame.Record) bool { return !isVariable(rec) })
	return result.Ok([2]*frame.Frame{variable, nonVariable})
}

// AggregateVariableGenerators collapses variable-resource rows to one row
// per technology, region, and category: capacity sums, other numeric columns
// become capacity-weighted means, and non-numeric columns keep their first
// value.
func AggregateVariableGenerators(data *frame.Frame) *frame.Frame {
	out := frame.New(data.Columns()...)
	for _, group := range data.GroupBy("technology", "region", "category") {
		out.Append(aggregateGroup(group.Records, data.Columns()))
	}
	return out
}

func aggregateGroup(recs []frame.Record, cols []string) frame.Record {
	agg := make(frame.Record, len(cols))
	totalCapacity := 0.0
	for _, rec := range recs {
		if c, ok := toFloat(rec["capacity"]); ok {
			totalCapacity += c
		}
	}
	for _, col := range cols {
		switch col {
		case "capacity":
			agg[col] = totalCapacity
		default:
			agg[col] = aggregateColumn(recs, col, totalCapacity)
		}
	}
	return agg
}

func aggregateColumn(recs []frame.Record, col string, totalCapacity float64) any {
	// Weighted mean only applies when every value in the group is numeric.
	weighted := 0.0
	numeric := true
	for _, rec := range recs {
		v, ok := toFloat(rec[col])
		if !ok {
			numeric = false
			break
		}
		capacity, _ := toFloat(rec["capacity"])
		weighted += v * capacity
	}
	if numeric && totalCapacity > 0 {
		return weighted / totalCapacity
	}
	for _, rec := range recs {
		if rec[col] != nil {
			return rec[col]
		}
	}
	return nil
}
