package models

import (
	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
)

// Component type names used as namespaces in the system arena and as rule
// target types in the construction engine.
const (
	TypeRegion        = "Region"
	TypeReserveRegion = "ReserveRegion"
	TypeGenerator     = "Generator"
	TypeInterface     = "TransmissionInterface"
	TypeLine          = "TransmissionLine"
	TypeDemand        = "Demand"
	TypeReserve       = "Reserve"
)

// Component is the polymorphic unit stored in the system arena. Names are
// unique within a component type's namespace.
type Component interface {
	GetName() string
	TypeName() string
}

// ComponentBase carries the fields shared by every component.
type ComponentBase struct {
	Name     string         `json:"name" yaml:"name"`
	Category string         `json:"category,omitempty" yaml:"category,omitempty"`
	Ext      map[string]any `json:"ext,omitempty" yaml:"ext,omitempty"`
}

// GetName returns the component's unique name within its type namespace.
func (c *ComponentBase) GetName() string { return c.Name }

// MinMax is an inclusive numeric range with min never above max.
type MinMax struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// NewMinMax validates and returns a MinMax range.
func NewMinMax(min, max float64) (MinMax, error) {
	if min > max {
		return MinMax{}, errors.Newf(errors.ErrorTypeComponentCreation,
			"min %g must not exceed max %g", min, max)
	}
	return MinMax{Min: min, Max: max}, nil
}

// FromToToFrom is a symmetric pair of directional flow limits.
type FromToToFrom struct {
	FromTo float64 `json:"from_to" yaml:"from_to"`
	ToFrom float64 `json:"to_from" yaml:"to_from"`
}

// NewFromToToFrom validates that both directional limits are non-negative.
func NewFromToToFrom(fromTo, toFrom float64) (FromToToFrom, error) {
	if fromTo < 0 || toFrom < 0 {
		return FromToToFrom{}, errors.Newf(errors.ErrorTypeComponentCreation,
			"flow limits must be non-negative, got from_to=%g to_from=%g", fromTo, toFrom)
	}
	return FromToToFrom{FromTo: fromTo, ToFrom: toFrom}, nil
}

func requireName(name, what string) error {
	if name == "" {
		return errors.Newf(errors.ErrorTypeComponentCreation, "%s requires a name", what)
	}
	return nil
}

func requireRate(rate float64, field, what string) error {
	if rate < 0 || rate > 1 {
		return errors.Newf(errors.ErrorTypeComponentCreation,
			"%s %s must be within [0, 1], got %g", what, field, rate)
	}
	return nil
}
