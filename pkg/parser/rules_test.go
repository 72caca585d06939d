package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/frame"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
)

func identifierFrom(field string) FieldGetter {
	return func(ctx *Context, r any) result.Result[any] {
		return widen(stringField(r, field))
	}
}

func TestGetRulesByTarget(t *testing.T) {
	rules := []Rule{
		{Name: "a", TargetTypes: []string{models.TypeRegion}},
		{Name: "b", TargetTypes: []string{models.TypeRegion, models.TypeDemand}},
	}
	grouped := GetRulesByTarget(rules)
	require.True(t, grouped.IsOk())
	byTarget := grouped.Unwrap()

	require.Len(t, byTarget[models.TypeRegion], 2)
	assert.Equal(t, "a", byTarget[models.TypeRegion][0].Name)
	assert.Equal(t, "b", byTarget[models.TypeRegion][1].Name)
	require.Len(t, byTarget[models.TypeDemand], 1)
}

func TestGetRuleForTarget(t *testing.T) {
	byTarget := map[string][]Rule{
		models.TypeRegion: {{Name: "a"}, {Name: "b"}},
	}

	// An empty name takes the first registered rule.
	first := GetRuleForTarget(byTarget, models.TypeRegion, "")
	require.True(t, first.IsOk())
	assert.Equal(t, "a", first.Unwrap().Name)

	named := GetRuleForTarget(byTarget, models.TypeRegion, "b")
	require.True(t, named.IsOk())
	assert.Equal(t, "b", named.Unwrap().Name)

	missing := GetRuleForTarget(byTarget, models.TypeRegion, "c")
	require.True(t, missing.IsErr())
	assert.Equal(t, errors.ErrorTypeNotFound, errors.TypeOf(missing.Err()))

	unknown := GetRuleForTarget(byTarget, models.TypeGenerator, "")
	assert.True(t, unknown.IsErr())
}

func TestCollectComponentSpecs(t *testing.T) {
	ctx := testContext(t)
	rule := Rule{
		Name:       "region",
		Identifier: identifierFrom("region"),
		OptionalFields: map[string]FieldGetter{
			"description": BuildRegionDescription,
		},
	}
	data := frame.FromRecords([]frame.Record{
		{"region": "p1"},
		{"region": "p2"},
	})

	specs := CollectComponentSpecs(ctx, data, rule)
	require.True(t, specs.IsOk())
	got := specs.Unwrap()
	require.Len(t, got, 2)
	assert.Equal(t, "p1", got[0].Identifier)
	assert.Equal(t, "ReEDS region p1", got[0].Fields["description"])
	assert.Equal(t, data.Row(0), got[0].Row)
}

func TestCollectComponentSpecsEmptyData(t *testing.T) {
	ctx := testContext(t)
	rule := Rule{Name: "region", Identifier: identifierFrom("region")}

	got := CollectComponentSpecs(ctx, nil, rule)
	require.True(t, got.IsErr())
	assert.Contains(t, got.Err().Error(), "rule region has no rows to process")

	got = CollectComponentSpecs(ctx, frame.New("region"), rule)
	assert.True(t, got.IsErr())
}

func TestCollectComponentSpecsAccumulatesRowErrors(t *testing.T) {
	ctx := testContext(t)
	rule := Rule{Name: "region", Identifier: identifierFrom("region")}
	data := frame.FromRecords([]frame.Record{
		{"region": "p1"},
		{"other": "x"},
		{"region": "p2"},
	})

	specs := CollectComponentSpecs(ctx, data, rule)
	require.True(t, specs.IsOk())
	assert.Len(t, specs.Unwrap(), 2)
}

func TestCollectComponentSpecsAllRowsFailed(t *testing.T) {
	ctx := testContext(t)
	rule := Rule{Name: "region", Identifier: identifierFrom("region")}
	data := frame.FromRecords([]frame.Record{
		{"other": "x"},
		{"other": "y"},
	})

	got := CollectComponentSpecs(ctx, data, rule)
	require.True(t, got.IsErr())
	assert.Contains(t, got.Err().Error(), "rule region failed for every row")
}

func TestCollectComponentSpecsRequiredFieldFailsRow(t *testing.T) {
	ctx := testContext(t)
	rule := Rule{
		Name:       "demand",
		Identifier: identifierFrom("region"),
		Fields: map[string]FieldGetter{
			"region": LookupRegion,
		},
	}
	// No regions registered, so the required lookup fails every row.
	data := frame.FromRecords([]frame.Record{{"region": "p1"}})
	got := CollectComponentSpecs(ctx, data, rule)
	assert.True(t, got.IsErr())
}

func TestCollectComponentSpecsOptionalFieldOmittedOnFailure(t *testing.T) {
	ctx := testContext(t)
	rule := Rule{
		Name:       "reserve",
		Identifier: identifierFrom("region"),
		OptionalFields: map[string]FieldGetter{
			"direction": ResolveReserveDirection,
		},
	}
	data := frame.FromRecords([]frame.Record{{"region": "p1"}})

	specs := CollectComponentSpecs(ctx, data, rule)
	require.True(t, specs.IsOk())
	_, present := specs.Unwrap()[0].Fields["direction"]
	assert.False(t, present)
}

func TestCollectComponentSpecsEmptyIdentifierFailsRow(t *testing.T) {
	ctx := testContext(t)
	rule := Rule{
		Name: "blank",
		Identifier: func(ctx *Context, r any) result.Result[any] {
			return result.Ok[any]("")
		},
	}
	data := frame.FromRecords([]frame.Record{{"region": "p1"}})
	got := CollectComponentSpecs(ctx, data, rule)
	require.True(t, got.IsErr())
	assert.Contains(t, got.Err().Error(), "empty identifier")
}
