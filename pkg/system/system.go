// Package system provides the in-memory component graph the converter builds
// into: an arena of typed components keyed by (type, name), with supplemental
// attributes and time series associated to components. Transforms that
// rewrite the graph (such as generator splitting) operate as remove-then-add
// transactions against this arena, re-associating derived data explicitly.
package system

import (
	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/models"
)

// System is the component graph. It is not safe for concurrent use; builder
// phases and transforms are expected to run sequentially.
type System struct {
	name       string
	components map[string]map[string]models.Component
	order      map[string][]string
	attributes map[string][]any
	timeSeries map[string]map[string]*models.SingleTimeSeries
}

// New creates an empty system with the given name.
func New(name string) *System {
	return &System{
		name:       name,
		components: make(map[string]map[string]models.Component),
		order:      make(map[string][]string),
		attributes: make(map[string][]any),
		timeSeries: make(map[string]map[string]*models.SingleTimeSeries),
	}
}

// Name returns the system name.
func (s *System) Name() string { return s.name }

func key(c models.Component) string {
	return c.TypeName() + "/" + c.GetName()
}

// AddComponent registers a component. Names must be unique within a type's
// namespace; duplicates are a conflict error.
func (s *System) AddComponent(c models.Component) error {
	if c == nil || c.GetName() == "" {
		return errors.New(errors.ErrorTypeComponentCreation, "component requires a name")
	}
	typeName := c.TypeName()
	byName, ok := s.components[typeName]
	if !ok {
		byName = make(map[string]models.Component)
		s.components[typeName] = byName
	}
	if _, exists := byName[c.GetName()]; exists {
		return errors.Newf(errors.ErrorTypeConflict,
			"component %s of type %s already exists", c.GetName(), typeName)
	}
	byName[c.GetName()] = c
	s.order[typeName] = append(s.order[typeName], c.GetName())
	return nil
}

// GetComponent fetches a component by exact type and name.
func (s *System) GetComponent(typeName, name string) (models.Component, error) {
	if byName, ok := s.components[typeName]; ok {
		if c, ok := byName[name]; ok {
			return c, nil
		}
	}
	return nil, errors.Newf(errors.ErrorTypeNotFound,
		"component %s of type %s not found", name, typeName)
}

// HasComponent reports whether a component with the given type and name exists.
func (s *System) HasComponent(typeName, name string) bool {
	_, err := s.GetComponent(typeName, name)
	return err == nil
}

// GetComponents lists components of a type in insertion order, optionally
// filtered. A nil filter returns everything of the type.
func (s *System) GetComponents(typeName string, filter func(models.Component) bool) []models.Component {
	byName := s.components[typeName]
	names := s.order[typeName]
	out := make([]models.Component, 0, len(names))
	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			continue
		}
		if filter == nil || filter(c) {
			out = append(out, c)
		}
	}
	return out
}

// RemoveComponent unregisters a component and drops its supplemental
// attributes and time series.
func (s *System) RemoveComponent(c models.Component) error {
	typeName := c.TypeName()
	byName, ok := s.components[typeName]
	if !ok {
		return errors.Newf(errors.ErrorTypeNotFound,
			"component %s of type %s not found", c.GetName(), typeName)
	}
	if _, ok := byName[c.GetName()]; !ok {
		return errors.Newf(errors.ErrorTypeNotFound,
			"component %s of type %s not found", c.GetName(), typeName)
	}
	delete(byName, c.GetName())
	names := s.order[typeName]
	for i, name := range names {
		if name == c.GetName() {
			s.order[typeName] = append(names[:i], names[i+1:]...)
			break
		}
	}
	delete(s.attributes, key(c))
	delete(s.timeSeries, key(c))
	return nil
}

// AddSupplementalAttribute attaches auxiliary data (such as an emission rate)
// to a registered component.
func (s *System) AddSupplementalAttribute(c models.Component, attribute any) error {
	if !s.HasComponent(c.TypeName(), c.GetName()) {
		return errors.Newf(errors.ErrorTypeNotFound,
			"cannot attach attribute: component %s of type %s not registered",
			c.GetName(), c.TypeName())
	}
	s.attributes[key(c)] = append(s.attributes[key(c)], attribute)
	return nil
}

// GetSupplementalAttributes returns the attributes attached to a component,
// in attachment order.
func (s *System) GetSupplementalAttributes(c models.Component) []any {
	return s.attributes[key(c)]
}

// AddTimeSeries associates a time series with a registered component, keyed
// by the series name.
func (s *System) AddTimeSeries(ts *models.SingleTimeSeries, c models.Component) error {
	if ts == nil {
		return errors.New(errors.ErrorTypeData, "cannot attach nil time series")
	}
	if !s.HasComponent(c.TypeName(), c.GetName()) {
		return errors.Newf(errors.ErrorTypeNotFound,
			"cannot attach time series: component %s of type %s not registered",
			c.GetName(), c.TypeName())
	}
	k := key(c)
	byName, ok := s.timeSeries[k]
	if !ok {
		byName = make(map[string]*models.SingleTimeSeries)
		s.timeSeries[k] = byName
	}
	byName[ts.Name] = ts
	return nil
}

// GetTimeSeries fetches a component's series by name. An empty name returns
// the sole series when the component has exactly one.
func (s *System) GetTimeSeries(c models.Component, name string) (*models.SingleTimeSeries, error) {
	byName := s.timeSeries[key(c)]
	if name == "" {
		if len(byName) == 1 {
			for _, ts := range byName {
				return ts, nil
			}
		}
		return nil, errors.Newf(errors.ErrorTypeNotFound,
			"component %s has %d time series, name required", c.GetName(), len(byName))
	}
	if ts, ok := byName[name]; ok {
		return ts, nil
	}
	return nil, errors.Newf(errors.ErrorTypeNotFound,
		"time series %s not found for component %s", name, c.GetName())
}

// HasTimeSeries reports whether the component has at least one series.
func (s *System) HasTimeSeries(c models.Component) bool {
	return len(s.timeSeries[key(c)]) > 0
}

// ListTimeSeries returns every series attached to a component.
func (s *System) ListTimeSeries(c models.Component) []*models.SingleTimeSeries {
	byName := s.timeSeries[key(c)]
	out := make([]*models.SingleTimeSeries, 0, len(byName))
	for _, ts := range byName {
		out = append(out, ts)
	}
	return out
}

// ComponentCounts reports how many components exist per type name.
func (s *System) ComponentCounts() map[string]int {
	counts := make(map[string]int, len(s.components))
	for typeName, byName := range s.components {
		counts[typeName] = len(byName)
	}
	return counts
}
