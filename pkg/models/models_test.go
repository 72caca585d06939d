package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegion(t *testing.T) *Region {
	t.Helper()
	r, err := NewRegion(Region{ComponentBase: ComponentBase{Name: "p1"}})
	require.NoError(t, err)
	return r
}

func TestNewRegionRequiresName(t *testing.T) {
	_, err := NewRegion(Region{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a name")
}

func TestNewGeneratorThermal(t *testing.T) {
	g, err := NewGenerator(Generator{
		ComponentBase: ComponentBase{Name: "coal_2010_p1", Category: "coal"},
		Variant:       GeneratorThermal,
		Technology:    "coal",
		Region:        testRegion(t),
		Capacity:      100,
		HeatRate:      9.5,
		FuelType:      "coal",
	})
	require.NoError(t, err)
	assert.Equal(t, TypeGenerator, g.TypeName())
	assert.Equal(t, "coal_2010_p1", g.GetName())
}

func TestNewGeneratorThermalRequiresHeatRateAndFuel(t *testing.T) {
	base := Generator{
		ComponentBase: ComponentBase{Name: "coal_p1"},
		Variant:       GeneratorThermal,
		Technology:    "coal",
		Region:        testRegion(t),
		Capacity:      100,
	}

	_, err := NewGenerator(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "heat_rate")

	withHeatRate := base
	withHeatRate.HeatRate = 9.5
	_, err = NewGenerator(withHeatRate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fuel_type")
}

func TestNewGeneratorStorageValidation(t *testing.T) {
	base := Generator{
		ComponentBase:   ComponentBase{Name: "battery_p1"},
		Variant:         GeneratorStorage,
		Technology:      "battery",
		Region:          testRegion(t),
		Capacity:        50,
		StorageDuration: 4,
	}

	_, err := NewGenerator(base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "round_trip_efficiency")

	bad := base
	bad.RoundTripEfficiency = 1.5
	_, err = NewGenerator(bad)
	assert.Error(t, err)

	good := base
	good.RoundTripEfficiency = 0.85
	g, err := NewGenerator(good)
	require.NoError(t, err)
	assert.Equal(t, 4.0, g.StorageDuration)
}

func TestNewGeneratorRejectsUnknownVariant(t *testing.T) {
	_, err := NewGenerator(Generator{
		ComponentBase: ComponentBase{Name: "x"},
		Variant:       GeneratorVariant("fusion"),
		Technology:    "x",
		Region:        testRegion(t),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown variant")
}

func TestNewGeneratorRejectsNegativeCapacity(t *testing.T) {
	_, err := NewGenerator(Generator{
		ComponentBase: ComponentBase{Name: "x"},
		Variant:       GeneratorVariable,
		Technology:    "wind-ons",
		Region:        testRegion(t),
		Capacity:      -1,
	})
	assert.Error(t, err)
}

func TestNewGeneratorOutageRateBounds(t *testing.T) {
	_, err := NewGenerator(Generator{
		ComponentBase:    ComponentBase{Name: "x"},
		Variant:          GeneratorVariable,
		Technology:       "wind-ons",
		Region:           testRegion(t),
		ForcedOutageRate: 1.2,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forced_outage_rate")
}

func TestNewGeneratorConsumingRequiresEfficiency(t *testing.T) {
	_, err := NewGenerator(Generator{
		ComponentBase: ComponentBase{Name: "dac_p1"},
		Variant:       GeneratorConsuming,
		Technology:    "dac",
		Region:        testRegion(t),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "electricity_efficiency")
}

func TestNewInterfaceRequiresRegions(t *testing.T) {
	_, err := NewInterface(Interface{ComponentBase: ComponentBase{Name: "p1||p2"}})
	assert.Error(t, err)

	iface, err := NewInterface(Interface{
		ComponentBase: ComponentBase{Name: "p1||p2"},
		FromRegion:    testRegion(t),
		ToRegion:      testRegion(t),
	})
	require.NoError(t, err)
	assert.Equal(t, TypeInterface, iface.TypeName())
}

func TestNewLineRequiresInterface(t *testing.T) {
	_, err := NewLine(Line{ComponentBase: ComponentBase{Name: "p1_p2_AC"}})
	assert.Error(t, err)
}

func TestNewReserveValidation(t *testing.T) {
	region, err := NewReserveRegion(ReserveRegion{ComponentBase: ComponentBase{Name: "p1"}})
	require.NoError(t, err)

	_, err = NewReserve(Reserve{ComponentBase: ComponentBase{Name: "p1_SPINNING"}, Region: region})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserve type")

	r, err := NewReserve(Reserve{
		ComponentBase: ComponentBase{Name: "p1_SPINNING"},
		Region:        region,
		ReserveType:   ReserveTypeSpinning,
		Direction:     ReserveDirectionUp,
	})
	require.NoError(t, err)
	assert.Equal(t, ReserveTypeSpinning, r.ReserveType)
}

func TestNewEmissionDefaultsSource(t *testing.T) {
	e, err := NewEmission(0.5, EmissionTypeCO2, "")
	require.NoError(t, err)
	assert.Equal(t, EmissionSourceCombustion, e.Source)
}

func TestNewEmissionRejectsNegativeRate(t *testing.T) {
	_, err := NewEmission(-0.1, EmissionTypeCO2, EmissionSourceCombustion)
	assert.Error(t, err)
}

func TestNewMinMax(t *testing.T) {
	mm, err := NewMinMax(1, 2)
	require.NoError(t, err)
	assert.Equal(t, MinMax{Min: 1, Max: 2}, mm)

	_, err = NewMinMax(3, 2)
	assert.Error(t, err)
}

func TestNewFromToToFromRejectsNegative(t *testing.T) {
	_, err := NewFromToToFrom(-1, 5)
	assert.Error(t, err)

	limits, err := NewFromToToFrom(100, 100)
	require.NoError(t, err)
	assert.Equal(t, 100.0, limits.ToFrom)
}

func TestEmissionCopyIsIndependent(t *testing.T) {
	emission, err := NewEmission(0.5, EmissionTypeCO2, "")
	require.NoError(t, err)

	dup := emission.Copy()
	assert.NotSame(t, emission, dup)
	dup.Rate = 1.5
	assert.Equal(t, 0.5, emission.Rate)
}

func TestSingleTimeSeriesCopy(t *testing.T) {
	start := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	ts, err := NewSingleTimeSeries("max_active_power", start, time.Hour, []float64{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, ts.Length())

	dup := ts.Copy()
	dup.Data[0] = 99
	assert.Equal(t, 1.0, ts.Data[0])
	assert.Equal(t, ts.Name, dup.Name)
}

func TestNewSingleTimeSeriesValidation(t *testing.T) {
	start := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := NewSingleTimeSeries("", start, time.Hour, []float64{1})
	assert.Error(t, err)
	_, err = NewSingleTimeSeries("x", start, 0, []float64{1})
	assert.Error(t, err)
	_, err = NewSingleTimeSeries("x", start, time.Hour, nil)
	assert.Error(t, err)
}
