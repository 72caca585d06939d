package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/config"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/datastore"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/frame"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/testutil"
)

// fixtureStore builds an in-memory run with two regions, a mix of generator
// technologies, one transmission corridor, hourly load, a spinning reserve,
// and an emission rate for the coal unit.
func fixtureStore(t *testing.T) *datastore.DataStore {
	t.Helper()
	d := datastore.New(t.TempDir())

	require.NoError(t, d.AddFrame("hierarchy", frame.FromRecords([]frame.Record{
		{"region": "p1", "state": "CO", "interconnect": "western"},
		{"region": "p2", "state": "NM", "interconnect": "western"},
	})))

	require.NoError(t, d.AddFrame("online_capacity", frame.FromRecords([]frame.Record{
		{"technology": "coal-new", "region": "p1", "vintage": "init-1", "year": 2030.0, "capacity": 100.0},
		{"technology": "wind-ons_1", "region": "p1", "vintage": "new1", "year": 2030.0, "capacity": 50.0},
		{"technology": "wind-ons_1", "region": "p1", "vintage": "new1", "year": 2030.0, "capacity": 30.0},
		{"technology": "battery_4", "region": "p2", "vintage": "new1", "year": 2030.0, "capacity": 20.0, "storage_duration": 4.0},
		{"technology": "electrolyzer", "region": "p2", "vintage": "new1", "year": 2030.0, "capacity": 10.0},
		{"technology": "coal-new", "region": "p1", "vintage": "init-1", "year": 2040.0, "capacity": 120.0},
	})))

	require.NoError(t, d.AddFrame("transmission_capacity", frame.FromRecords([]frame.Record{
		{"from_region": "p1", "to_region": "p2", "trtype": "AC", "capacity": 500.0},
		{"from_region": "p2", "to_region": "p1", "trtype": "AC", "capacity": 500.0},
	})))

	require.NoError(t, d.AddFrame("load", frame.FromRecords([]frame.Record{
		{"p1": 1000.0, "p2": 800.0},
		{"p1": 1200.0, "p2": 900.0},
		{"p1": 1100.0, "p2": 950.0},
	}, "p1", "p2")))

	require.NoError(t, d.AddFrame("reserves", frame.FromRecords([]frame.Record{
		{"region": "p1", "reserve_type": "SPINNING", "value": 10.0},
	})))

	require.NoError(t, d.AddFrame("emission_rates", frame.FromRecords([]frame.Record{
		{"technology": "coal-new", "region": "p1", "vintage": "init-1",
			"emission_type": "CO2", "emission_source": "combustion", "rate": 0.95},
		// Rates for generators the build never created: the excluded
		// electrolyzer and a technology from another run.
		{"technology": "electrolyzer", "region": "p2", "vintage": "new1",
			"emission_type": "CO2", "emission_source": "combustion", "rate": 0.1},
		{"technology": "gas-ct", "region": "p9", "vintage": "init-1",
			"emission_type": "CO2", "emission_source": "combustion", "rate": 0.4},
	})))

	return d
}

func fixtureParser(t *testing.T) *Parser {
	t.Helper()
	testutil.CaptureLogs(t)
	cfg, err := config.New(config.ReEDSConfig{
		SolveYear:   config.Years{2030},
		WeatherYear: config.Years{2012},
		CaseName:    "test_case",
	})
	require.NoError(t, err)
	p, err := New(cfg, fixtureStore(t), "test_system")
	require.NoError(t, err)
	return p
}

func TestBuildSystem(t *testing.T) {
	p := fixtureParser(t)
	sys, err := p.BuildSystem()
	require.NoError(t, err)
	assert.Equal(t, "test_system", sys.Name())
	assert.Equal(t, PhaseEmissions, p.CurrentPhase())

	assert.True(t, sys.HasComponent(models.TypeRegion, "p1"))
	assert.True(t, sys.HasComponent(models.TypeRegion, "p2"))

	// The excluded electrolyzer and the off-year coal row are dropped, and
	// the two wind rows aggregate to one unit.
	generators := sys.GetComponents(models.TypeGenerator, nil)
	assert.Len(t, generators, 3)

	coal, err := sys.GetComponent(models.TypeGenerator, "coal-new_init-1_p1")
	require.NoError(t, err)
	coalGen := coal.(*models.Generator)
	assert.Equal(t, models.GeneratorThermal, coalGen.Variant)
	assert.Equal(t, "coal", coalGen.FuelType)
	assert.Equal(t, 100.0, coalGen.Capacity)
	// Operating parameters come from the per-category defaults.
	assert.Equal(t, 0.02, coalGen.RampRate)
	assert.Equal(t, 0.4, coalGen.MinStableLevel)

	wind, err := sys.GetComponent(models.TypeGenerator, "wind-ons_1_new1_p1")
	require.NoError(t, err)
	windGen := wind.(*models.Generator)
	assert.Equal(t, models.GeneratorVariable, windGen.Variant)
	assert.Equal(t, 80.0, windGen.Capacity)
	assert.True(t, windGen.IsAggregated)

	battery, err := sys.GetComponent(models.TypeGenerator, "battery_4_new1_p2")
	require.NoError(t, err)
	batteryGen := battery.(*models.Generator)
	assert.Equal(t, models.GeneratorStorage, batteryGen.Variant)
	assert.Equal(t, 4.0, batteryGen.StorageDuration)
	assert.Equal(t, 80.0, batteryGen.EnergyCapacity)

	// Both row orientations of the corridor collapse to one interface.
	interfaces := sys.GetComponents(models.TypeInterface, nil)
	require.Len(t, interfaces, 1)
	assert.Equal(t, "p1||p2", interfaces[0].GetName())
	assert.True(t, sys.HasComponent(models.TypeLine, "p1_p2_AC"))
	assert.True(t, sys.HasComponent(models.TypeLine, "p2_p1_AC"))

	demand, err := sys.GetComponent(models.TypeDemand, "p1_load")
	require.NoError(t, err)
	assert.Equal(t, 1200.0, demand.(*models.Demand).PeakDemand)

	assert.True(t, sys.HasComponent(models.TypeReserveRegion, "p1"))
	reserve, err := sys.GetComponent(models.TypeReserve, "p1_SPINNING")
	require.NoError(t, err)
	assert.Equal(t, models.ReserveTypeSpinning, reserve.(*models.Reserve).ReserveType)
	assert.Equal(t, models.ReserveDirectionUp, reserve.(*models.Reserve).Direction)

	attrs := sys.GetSupplementalAttributes(coal)
	require.Len(t, attrs, 1)
	emission := attrs[0].(*models.Emission)
	assert.Equal(t, models.EmissionTypeCO2, emission.Type)
	assert.Equal(t, 0.95, emission.Rate)
}

func TestBuildSystemTimeSeries(t *testing.T) {
	p := fixtureParser(t)
	sys, err := p.BuildSystem()
	require.NoError(t, err)

	demand, err := sys.GetComponent(models.TypeDemand, "p1_load")
	require.NoError(t, err)
	ts, err := sys.GetTimeSeries(demand, "max_active_power")
	require.NoError(t, err)
	assert.Equal(t, []float64{1000, 1200, 1100}, ts.Data)
	assert.Equal(t, 2012, ts.Start.Year())

	// The spinning requirement is the load profile scaled by its fraction.
	reserve, err := sys.GetComponent(models.TypeReserve, "p1_SPINNING")
	require.NoError(t, err)
	requirement, err := sys.GetTimeSeries(reserve, "requirement")
	require.NoError(t, err)
	require.Len(t, requirement.Data, 3)
	assert.InDelta(t, 0.03*1000, requirement.Data[0], 1e-9)
}

func TestBuildEmissionsOnlyAttachesToBuiltGenerators(t *testing.T) {
	p := fixtureParser(t)
	sys, err := p.BuildSystem()
	require.NoError(t, err)

	coal, err := sys.GetComponent(models.TypeGenerator, "coal-new_init-1_p1")
	require.NoError(t, err)
	require.Len(t, sys.GetSupplementalAttributes(coal), 1)

	// The rows for the excluded electrolyzer and the unknown gas-ct unit
	// attach nothing anywhere.
	total := 0
	for _, c := range sys.GetComponents(models.TypeGenerator, nil) {
		total += len(sys.GetSupplementalAttributes(c))
	}
	assert.Equal(t, 1, total)
}

func TestBuildSystemComponentsIsIdempotent(t *testing.T) {
	p := fixtureParser(t)
	_, err := p.BuildSystem()
	require.NoError(t, err)

	before := p.System().ComponentCounts()
	require.True(t, p.BuildSystemComponents().IsOk())
	assert.Equal(t, before, p.System().ComponentCounts())

	// Emissions are not attached a second time.
	coal, err := p.System().GetComponent(models.TypeGenerator, "coal-new_init-1_p1")
	require.NoError(t, err)
	assert.Len(t, p.System().GetSupplementalAttributes(coal), 1)
}

func TestPrepareDataRequiresCoreDatasets(t *testing.T) {
	cfg, err := config.New(config.ReEDSConfig{SolveYear: config.Years{2030}, WeatherYear: config.Years{2012}})
	require.NoError(t, err)

	d := datastore.New(t.TempDir())
	require.NoError(t, d.AddFrame("hierarchy", frame.New("region")))
	require.NoError(t, d.AddFrame("online_capacity", frame.FromRecords([]frame.Record{
		{"technology": "coal-new", "region": "p1", "capacity": 1.0},
	})))

	p, err := New(cfg, d, "t")
	require.NoError(t, err)
	got := p.PrepareData()
	require.True(t, got.IsErr())
	assert.Contains(t, got.Err().Error(), "Dataset hierarchy is empty")
}

func TestValidateInputsSolveYear(t *testing.T) {
	p := fixtureParser(t)
	require.NoError(t, p.store.AddFrame("years", frame.FromRecords([]frame.Record{
		{"years": 2040.0},
	}, "years")))

	got := p.ValidateInputs()
	require.True(t, got.IsErr())
	assert.Contains(t, got.Err().Error(), "Solve year(s) 2030 not found")
}

func TestValidateInputsWeatherYearLoad(t *testing.T) {
	p := fixtureParser(t)
	require.NoError(t, p.store.AddFrame("load", frame.New("p1")))

	got := p.ValidateInputs()
	require.True(t, got.IsErr())
	assert.Contains(t, got.Err().Error(), "Weather year 2012 has no load data")
}

func TestBuildGeneratorsAllExcluded(t *testing.T) {
	cfg, err := config.New(config.ReEDSConfig{SolveYear: config.Years{2030}, WeatherYear: config.Years{2012}})
	require.NoError(t, err)

	d := datastore.New(t.TempDir())
	require.NoError(t, d.AddFrame("hierarchy", frame.FromRecords([]frame.Record{{"region": "p1"}})))
	require.NoError(t, d.AddFrame("online_capacity", frame.FromRecords([]frame.Record{
		{"technology": "electrolyzer", "region": "p1", "capacity": 10.0},
	})))
	require.NoError(t, d.AddFrame("load", frame.FromRecords([]frame.Record{{"p1": 100.0}}, "p1")))

	p, err := New(cfg, d, "t")
	require.NoError(t, err)
	got := p.BuildSystemComponents()
	require.True(t, got.IsErr())
	assert.Contains(t, got.Err().Error(), "All generators were excluded")
}

func TestNewDefaultsSystemNameToCaseName(t *testing.T) {
	cfg, err := config.New(config.ReEDSConfig{
		SolveYear:   config.Years{2030},
		WeatherYear: config.Years{2012},
		CaseName:    "my_case",
	})
	require.NoError(t, err)
	p, err := New(cfg, datastore.New(t.TempDir()), "")
	require.NoError(t, err)
	assert.Equal(t, "my_case", p.System().Name())
}
