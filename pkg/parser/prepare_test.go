package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/frame"
)

func capacityFrame(recs ...frame.Record) *frame.LazyFrame {
	return frame.Eager(frame.FromRecords(recs))
}

func TestPrepareGeneratorDatasetNilCapacity(t *testing.T) {
	tables := defaultTables(t)
	got := prepareGeneratorDataset(nil, nil, nil, tables.TechCategories)
	require.True(t, got.IsErr())
	assert.Contains(t, got.Err().Error(), "No capacity data")
}

func TestPrepareGeneratorDatasetExcludesTechs(t *testing.T) {
	tables := defaultTables(t)
	capacity := capacityFrame(
		frame.Record{"technology": "coal-new", "region": "p1", "capacity": 100.0},
		frame.Record{"technology": "electrolyzer", "region": "p1", "capacity": 50.0},
	)
	got := prepareGeneratorDataset(capacity, nil, []string{"electrolyzer"}, tables.TechCategories)
	require.True(t, got.IsOk())
	data := got.Unwrap()
	require.Equal(t, 1, data.NumRows())
	assert.Equal(t, "coal-new", data.Row(0)["technology"])
}

func TestPrepareGeneratorDatasetAllExcluded(t *testing.T) {
	tables := defaultTables(t)
	capacity := capacityFrame(
		frame.Record{"technology": "electrolyzer", "region": "p1", "capacity": 50.0},
	)
	got := prepareGeneratorDataset(capacity, nil, []string{"electrolyzer"}, tables.TechCategories)
	require.True(t, got.IsErr())
	assert.Contains(t, got.Err().Error(), "All generators were excluded")
}

func TestPrepareGeneratorDatasetAddsCategoryColumns(t *testing.T) {
	tables := defaultTables(t)
	capacity := capacityFrame(
		frame.Record{"technology": "wind-ons_1", "region": "p1", "capacity": 100.0},
		frame.Record{"technology": "unobtainium", "region": "p1", "capacity": 10.0},
	)
	got := prepareGeneratorDataset(capacity, nil, nil, tables.TechCategories)
	require.True(t, got.IsOk())
	data := got.Unwrap()

	assert.Equal(t, []string{"wind"}, data.Row(0)["categories"])
	assert.Equal(t, "wind", data.Row(0)["category"])

	// Uncategorized technologies get an empty list and a nil category.
	assert.Equal(t, []string{}, data.Row(1)["categories"])
	assert.Nil(t, data.Row(1)["category"])
}

func TestPrepareGeneratorDatasetFuelJoin(t *testing.T) {
	tables := defaultTables(t)
	capacity := capacityFrame(
		frame.Record{"technology": "coal-new", "region": "p1", "capacity": 100.0},
	)
	fuelMap := frame.Eager(frame.FromRecords([]frame.Record{
		{"technology": "coal-new", "fuel_type": "coal"},
	}))
	got := prepareGeneratorDataset(capacity,
		map[string]*frame.LazyFrame{"fuel_tech_map": fuelMap}, nil, tables.TechCategories)
	require.True(t, got.IsOk())
	assert.Equal(t, "coal", got.Unwrap().Row(0)["fuel_type"])
}

func TestPrepareGeneratorDatasetMalformedFuelMapSkipped(t *testing.T) {
	tables := defaultTables(t)
	capacity := capacityFrame(
		frame.Record{"technology": "coal-new", "region": "p1", "capacity": 100.0},
	)
	// Missing the technology column, so the join is skipped.
	fuelMap := frame.Eager(frame.FromRecords([]frame.Record{
		{"tech": "coal-new", "fuel_type": "coal"},
	}))
	got := prepareGeneratorDataset(capacity,
		map[string]*frame.LazyFrame{"fuel_tech_map": fuelMap}, nil, tables.TechCategories)
	require.True(t, got.IsOk())
	assert.Nil(t, got.Unwrap().Row(0)["fuel_type"])
}

func TestPrepareGeneratorDatasetCoalescesStorageDuration(t *testing.T) {
	tables := defaultTables(t)
	capacity := capacityFrame(
		frame.Record{"technology": "battery_4", "region": "p1", "capacity": 20.0, "storage_duration": nil},
		frame.Record{"technology": "battery_8", "region": "p1", "capacity": 20.0, "storage_duration": 8.0},
	)
	durations := frame.Eager(frame.FromRecords([]frame.Record{
		{"technology": "battery_4", "region": "p1", "storage_duration": 5.5},
		{"technology": "battery_8", "region": "p1", "storage_duration": 2.0},
	}))
	got := prepareGeneratorDataset(capacity,
		map[string]*frame.LazyFrame{"storage_duration_out": durations}, nil, tables.TechCategories)
	require.True(t, got.IsOk())
	data := got.Unwrap()

	// Nil values are filled from the right; existing values win.
	assert.Equal(t, 5.5, data.Row(0)["storage_duration"])
	assert.Equal(t, 8.0, data.Row(1)["storage_duration"])
}

func TestPrepareGeneratorDatasetPivotsConsumeCharacteristics(t *testing.T) {
	tables := defaultTables(t)
	capacity := capacityFrame(
		frame.Record{"technology": "electrolyzer_1", "region": "p1", "capacity": 10.0},
	)
	consume := frame.Eager(frame.FromRecords([]frame.Record{
		{"technology": "electrolyzer_1", "parameter": "electricity_efficiency", "value": 0.8},
	}))
	got := prepareGeneratorDataset(capacity,
		map[string]*frame.LazyFrame{"consume_characteristics": consume}, nil, tables.TechCategories)
	require.True(t, got.IsOk())
	assert.Equal(t, 0.8, got.Unwrap().Row(0)["electricity_efficiency"])
}

func TestPrepareGeneratorInputsSplitsVariable(t *testing.T) {
	tables := defaultTables(t)
	capacity := capacityFrame(
		frame.Record{"technology": "wind-ons_1", "region": "p1", "capacity": 50.0},
		frame.Record{"technology": "coal-new", "region": "p1", "capacity": 100.0},
	)
	variableCategories := tables.GeneratorVariants.CategoriesForVariant("variable")

	got := PrepareGeneratorInputs(capacity, nil, nil, tables.TechCategories, variableCategories)
	require.True(t, got.IsOk())
	pair := got.Unwrap()
	variable, nonVariable := pair[0], pair[1]

	require.Equal(t, 1, variable.NumRows())
	assert.Equal(t, "wind-ons_1", variable.Row(0)["technology"])
	assert.Equal(t, true, variable.Row(0)["is_aggregated"])

	require.Equal(t, 1, nonVariable.NumRows())
	assert.Equal(t, "coal-new", nonVariable.Row(0)["technology"])
	assert.False(t, nonVariable.HasColumn("is_aggregated"))
}

func TestAggregateVariableGenerators(t *testing.T) {
	data := frame.FromRecords([]frame.Record{
		{"technology": "wind-ons_1", "region": "p1", "category": "wind", "capacity": 60.0, "ilr": 1.0, "class": "a"},
		{"technology": "wind-ons_1", "region": "p1", "category": "wind", "capacity": 40.0, "ilr": 2.0, "class": "b"},
		{"technology": "wind-ons_1", "region": "p2", "category": "wind", "capacity": 10.0, "ilr": 3.0, "class": "c"},
	})
	got := AggregateVariableGenerators(data)
	require.Equal(t, 2, got.NumRows())

	first := got.Row(0)
	assert.Equal(t, 100.0, first["capacity"])
	// Capacity-weighted mean: (1.0*60 + 2.0*40) / 100.
	assert.InDelta(t, 1.4, first["ilr"].(float64), 1e-9)
	// Non-numeric columns keep the first value.
	assert.Equal(t, "a", first["class"])

	second := got.Row(1)
	assert.Equal(t, "p2", second["region"])
	assert.Equal(t, 10.0, second["capacity"])
}
