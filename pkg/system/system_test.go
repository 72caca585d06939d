package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
)

func newRegion(t *testing.T, name string) *models.Region {
	t.Helper()
	r, err := models.NewRegion(models.Region{ComponentBase: models.ComponentBase{Name: name}})
	require.NoError(t, err)
	return r
}

func TestAddAndGetComponent(t *testing.T) {
	sys := New("test")
	region := newRegion(t, "p1")
	require.NoError(t, sys.AddComponent(region))

	got, err := sys.GetComponent(models.TypeRegion, "p1")
	require.NoError(t, err)
	assert.Same(t, models.Component(region), got)
	assert.True(t, sys.HasComponent(models.TypeRegion, "p1"))
	assert.False(t, sys.HasComponent(models.TypeRegion, "p2"))
}

func TestAddComponentRejectsDuplicates(t *testing.T) {
	sys := New("test")
	require.NoError(t, sys.AddComponent(newRegion(t, "p1")))

	err := sys.AddComponent(newRegion(t, "p1"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeConflict, errors.TypeOf(err))
}

func TestGetComponentNotFound(t *testing.T) {
	sys := New("test")
	_, err := sys.GetComponent(models.TypeRegion, "missing")
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.TypeOf(err))
}

func TestGetComponentsInsertionOrder(t *testing.T) {
	sys := New("test")
	for _, name := range []string{"p3", "p1", "p2"} {
		require.NoError(t, sys.AddComponent(newRegion(t, name)))
	}
	got := sys.GetComponents(models.TypeRegion, nil)
	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.GetName())
	}
	assert.Equal(t, []string{"p3", "p1", "p2"}, names)
}

func TestGetComponentsFilter(t *testing.T) {
	sys := New("test")
	require.NoError(t, sys.AddComponent(newRegion(t, "p1")))
	require.NoError(t, sys.AddComponent(newRegion(t, "p2")))

	got := sys.GetComponents(models.TypeRegion, func(c models.Component) bool {
		return c.GetName() == "p2"
	})
	require.Len(t, got, 1)
	assert.Equal(t, "p2", got[0].GetName())
}

func TestRemoveComponentDropsAttachments(t *testing.T) {
	sys := New("test")
	region := newRegion(t, "p1")
	require.NoError(t, sys.AddComponent(region))

	emission, err := models.NewEmission(0.5, models.EmissionTypeCO2, "")
	require.NoError(t, err)
	require.NoError(t, sys.AddSupplementalAttribute(region, emission))

	ts, err := models.NewSingleTimeSeries("max_active_power",
		time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour, []float64{1, 2})
	require.NoError(t, err)
	require.NoError(t, sys.AddTimeSeries(ts, region))

	require.NoError(t, sys.RemoveComponent(region))
	assert.False(t, sys.HasComponent(models.TypeRegion, "p1"))

	// Re-adding the same name starts fresh.
	require.NoError(t, sys.AddComponent(region))
	assert.Empty(t, sys.GetSupplementalAttributes(region))
	assert.False(t, sys.HasTimeSeries(region))
}

func TestRemoveComponentNotFound(t *testing.T) {
	sys := New("test")
	err := sys.RemoveComponent(newRegion(t, "ghost"))
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.TypeOf(err))
}

func TestSupplementalAttributesRequireRegistration(t *testing.T) {
	sys := New("test")
	err := sys.AddSupplementalAttribute(newRegion(t, "p1"), "anything")
	assert.Error(t, err)
}

func TestTimeSeriesRoundTrip(t *testing.T) {
	sys := New("test")
	region := newRegion(t, "p1")
	require.NoError(t, sys.AddComponent(region))

	start := time.Date(2012, 1, 1, 0, 0, 0, 0, time.UTC)
	ts, err := models.NewSingleTimeSeries("max_active_power", start, time.Hour, []float64{1, 2, 3})
	require.NoError(t, err)
	require.NoError(t, sys.AddTimeSeries(ts, region))

	byName, err := sys.GetTimeSeries(region, "max_active_power")
	require.NoError(t, err)
	assert.Equal(t, ts, byName)

	// Single series resolves without a name.
	sole, err := sys.GetTimeSeries(region, "")
	require.NoError(t, err)
	assert.Equal(t, ts, sole)

	second, err := models.NewSingleTimeSeries("reserve_requirement", start, time.Hour, []float64{4})
	require.NoError(t, err)
	require.NoError(t, sys.AddTimeSeries(second, region))

	_, err = sys.GetTimeSeries(region, "")
	assert.Error(t, err)
	assert.Len(t, sys.ListTimeSeries(region), 2)
}

func TestComponentCounts(t *testing.T) {
	sys := New("test")
	require.NoError(t, sys.AddComponent(newRegion(t, "p1")))
	require.NoError(t, sys.AddComponent(newRegion(t, "p2")))

	counts := sys.ComponentCounts()
	assert.Equal(t, 2, counts[models.TypeRegion])
}
