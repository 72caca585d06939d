package parser

import (
	"strings"

	"go.uber.org/zap"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/frame"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/logger"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/metrics"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/result"
)

// Rule declares how rows of one dataset become components: which component
// types it targets, the getter that names each component, and the getters
// that fill its fields. Optional fields that fail to resolve are omitted
// from the spec instead of failing the row.
type Rule struct {
	Name           string
	TargetTypes    []string
	Dataset        string
	Identifier     FieldGetter
	Fields         map[string]FieldGetter
	OptionalFields map[string]FieldGetter
}

// GetTargetTypes lists the component types the rule can build.
func (r Rule) GetTargetTypes() []string { return r.TargetTypes }

// GetRulesByTarget groups rules by each of their target types, preserving
// rule order within a target.
func GetRulesByTarget(rules []Rule) result.Result[map[string][]Rule] {
	byTarget := make(map[string][]Rule)
	for _, rule := range rules {
		for _, target := range rule.GetTargetTypes() {
			byTarget[target] = append(byTarget[target], rule)
		}
	}
	return result.Ok(byTarget)
}

// GetRuleForTarget selects a rule for a target type. An empty name takes the
// first registered rule; a name selects that rule. Unknown targets and
// unknown names are errors.
func GetRuleForTarget(byTarget map[string][]Rule, targetType, name string) result.Result[Rule] {
	rules, ok := byTarget[targetType]
	if !ok || len(rules) == 0 {
		return result.Err[Rule](errors.Newf(errors.ErrorTypeNotFound,
			"no rules registered for target type %s", targetType))
	}
	if name == "" {
		return result.Ok(rules[0])
	}
	for _, rule := range rules {
		if rule.Name == name {
			return result.Ok(rule)
		}
	}
	return result.Err[Rule](errors.Newf(errors.ErrorTypeNotFound,
		"no rule named %s for target type %s", name, targetType))
}

// ComponentSpec is the construction engine's output for one row: the
// component identifier and its resolved field values. The originating row
// rides along for builders that need raw columns.
type ComponentSpec struct {
	Identifier string
	Fields     map[string]any
	Row        frame.Record
}

// CollectComponentSpecs runs a rule over a dataset. Row failures accumulate
// and are logged; the result is an error only when the dataset is missing or
// empty, or when every row failed.
func CollectComponentSpecs(ctx *Context, data *frame.Frame, rule Rule) result.Result[[]ComponentSpec] {
	if data == nil || data.IsEmpty() {
		return result.Err[[]ComponentSpec](errors.Newf(errors.ErrorTypeParser,
			"rule %s has no rows to process", rule.Name))
	}

	var specs []ComponentSpec
	var rowErrors []string
	for _, rec := range data.Records() {
		spec, err := collectRow(ctx, rec, rule)
		if err != nil {
			rowErrors = append(rowErrors, err.Error())
			metrics.RowErrors.WithLabelValues(rule.Name).Inc()
			continue
		}
		specs = append(specs, spec)
	}

	if len(rowErrors) > 0 {
		logger.Warn("rows failed construction",
			zap.String("rule", rule.Name),
			zap.Int("failed", len(rowErrors)),
			zap.Int("succeeded", len(specs)),
			zap.String("first_error", rowErrors[0]))
	}
	if len(specs) == 0 {
		return result.Err[[]ComponentSpec](errors.Newf(errors.ErrorTypeParser,
			"rule %s failed for every row: %s", rule.Name,
			strings.Join(truncate(rowErrors, 3), "; ")))
	}
	return result.Ok(specs)
}

func collectRow(ctx *Context, rec frame.Record, rule Rule) (ComponentSpec, error) {
	idResult := rule.Identifier(ctx, rec)
	if idResult.IsErr() {
		return ComponentSpec{}, errors.Wrap(idResult.UnwrapErr(), errors.ErrorTypeParser,
			"identifier resolution failed")
	}
	identifier, _ := idResult.Unwrap().(string)
	if identifier == "" {
		return ComponentSpec{}, errors.Newf(errors.ErrorTypeParser,
			"rule %s produced an empty identifier", rule.Name)
	}

	fields := make(map[string]any, len(rule.Fields)+len(rule.OptionalFields))
	for name, getter := range rule.Fields {
		fr := getter(ctx, rec)
		if fr.IsErr() {
			return ComponentSpec{}, errors.Wrap(fr.UnwrapErr(), errors.ErrorTypeParser,
				"field "+name+" failed for "+identifier)
		}
		fields[name] = fr.Unwrap()
	}
	for name, getter := range rule.OptionalFields {
		fr := getter(ctx, rec)
		if fr.IsOk() {
			fields[name] = fr.Unwrap()
		}
	}
	return ComponentSpec{Identifier: identifier, Fields: fields, Row: rec}, nil
}

func truncate(errs []string, n int) []string {
	if len(errs) <= n {
		return errs
	}
	return errs[:n]
}
