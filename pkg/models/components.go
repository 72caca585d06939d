package models

import (
	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
)

// Region is a named power-system area associated with generators,
// transmission, and demand.
type Region struct {
	ComponentBase
	Description        string `json:"description,omitempty" yaml:"description,omitempty"`
	State              string `json:"state,omitempty" yaml:"state,omitempty"`
	NERCRegion         string `json:"nerc_region,omitempty" yaml:"nerc_region,omitempty"`
	TransmissionRegion string `json:"transmission_region,omitempty" yaml:"transmission_region,omitempty"`
	Interconnect       string `json:"interconnect,omitempty" yaml:"interconnect,omitempty"`
	Country            string `json:"country,omitempty" yaml:"country,omitempty"`
}

// TypeName implements Component.
func (r *Region) TypeName() string { return TypeRegion }

// NewRegion validates and returns a Region.
func NewRegion(r Region) (*Region, error) {
	if err := requireName(r.Name, "region"); err != nil {
		return nil, err
	}
	return &r, nil
}

// ReserveRegion is the area over which an operating-reserve product is
// procured.
type ReserveRegion struct {
	ComponentBase
}

// TypeName implements Component.
func (r *ReserveRegion) TypeName() string { return TypeReserveRegion }

// NewReserveRegion validates and returns a ReserveRegion.
func NewReserveRegion(r ReserveRegion) (*ReserveRegion, error) {
	if err := requireName(r.Name, "reserve region"); err != nil {
		return nil, err
	}
	return &r, nil
}

// Generator is a generation unit. The Variant tag selects which of the
// variant-specific fields are required; shared descriptive and cost fields
// apply to every variant. Consuming technologies are modeled as generators
// with negative net output.
type Generator struct {
	ComponentBase
	Variant    GeneratorVariant `json:"variant" yaml:"variant"`
	Technology string           `json:"technology" yaml:"technology"`
	Vintage    string           `json:"vintage,omitempty" yaml:"vintage,omitempty"`
	Region     *Region          `json:"region" yaml:"region"`
	Capacity   float64          `json:"capacity" yaml:"capacity"`

	// Thermal fields.
	HeatRate float64 `json:"heat_rate,omitempty" yaml:"heat_rate,omitempty"`
	FuelType string  `json:"fuel_type,omitempty" yaml:"fuel_type,omitempty"`

	// Variable-resource fields.
	ResourceClass        string  `json:"resource_class,omitempty" yaml:"resource_class,omitempty"`
	InverterLoadingRatio float64 `json:"inverter_loading_ratio,omitempty" yaml:"inverter_loading_ratio,omitempty"`
	MaxCapacityFactor    float64 `json:"max_capacity_factor,omitempty" yaml:"max_capacity_factor,omitempty"`
	IsAggregated         bool    `json:"is_aggregated,omitempty" yaml:"is_aggregated,omitempty"`

	// Storage fields.
	StorageDuration     float64 `json:"storage_duration,omitempty" yaml:"storage_duration,omitempty"`
	RoundTripEfficiency float64 `json:"round_trip_efficiency,omitempty" yaml:"round_trip_efficiency,omitempty"`
	EnergyCapacity      float64 `json:"energy_capacity,omitempty" yaml:"energy_capacity,omitempty"`

	// Hydro fields.
	IsDispatchable bool    `json:"is_dispatchable,omitempty" yaml:"is_dispatchable,omitempty"`
	FlowRange      *MinMax `json:"flow_range,omitempty" yaml:"flow_range,omitempty"`

	// Consuming-technology fields.
	ElectricityEfficiency float64 `json:"electricity_efficiency,omitempty" yaml:"electricity_efficiency,omitempty"`

	// Shared cost and operating fields.
	FuelPrice           float64 `json:"fuel_price,omitempty" yaml:"fuel_price,omitempty"`
	VOMCost             float64 `json:"vom_cost,omitempty" yaml:"vom_cost,omitempty"`
	FOMCost             float64 `json:"fom_cost,omitempty" yaml:"fom_cost,omitempty"`
	CapitalCost         float64 `json:"capital_cost,omitempty" yaml:"capital_cost,omitempty"`
	ForcedOutageRate    float64 `json:"forced_outage_rate,omitempty" yaml:"forced_outage_rate,omitempty"`
	PlannedOutageRate   float64 `json:"planned_outage_rate,omitempty" yaml:"planned_outage_rate,omitempty"`
	RampRate            float64 `json:"ramp_rate,omitempty" yaml:"ramp_rate,omitempty"`
	MinStableLevel      float64 `json:"min_stable_level,omitempty" yaml:"min_stable_level,omitempty"`
	StartupCost         float64 `json:"startup_cost,omitempty" yaml:"startup_cost,omitempty"`
	CapacityFactorRange *MinMax `json:"capacity_factor_range,omitempty" yaml:"capacity_factor_range,omitempty"`
	MaxAge              int     `json:"max_age,omitempty" yaml:"max_age,omitempty"`
}

// TypeName implements Component. Every variant shares the Generator
// namespace so that downstream transforms and lookups see one generator set.
func (g *Generator) TypeName() string { return TypeGenerator }

// NewGenerator validates the shared and variant-specific requirements and
// returns the generator.
func NewGenerator(g Generator) (*Generator, error) {
	if err := requireName(g.Name, "generator"); err != nil {
		return nil, err
	}
	if g.Region == nil {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"generator %s requires a region", g.Name)
	}
	if g.Technology == "" {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"generator %s requires a technology", g.Name)
	}
	if g.Capacity < 0 {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"generator %s capacity must be non-negative, got %g", g.Name, g.Capacity)
	}
	if err := requireRate(g.ForcedOutageRate, "forced_outage_rate", "generator "+g.Name); err != nil {
		return nil, err
	}
	if err := requireRate(g.PlannedOutageRate, "planned_outage_rate", "generator "+g.Name); err != nil {
		return nil, err
	}

	switch g.Variant {
	case GeneratorThermal:
		if g.HeatRate == 0 {
			return nil, errors.Newf(errors.ErrorTypeComponentCreation,
				"thermal generator %s requires heat_rate", g.Name)
		}
		if g.FuelType == "" {
			return nil, errors.Newf(errors.ErrorTypeComponentCreation,
				"thermal generator %s requires fuel_type", g.Name)
		}
	case GeneratorStorage:
		if g.StorageDuration == 0 {
			return nil, errors.Newf(errors.ErrorTypeComponentCreation,
				"storage %s requires storage_duration", g.Name)
		}
		if g.RoundTripEfficiency <= 0 || g.RoundTripEfficiency > 1 {
			return nil, errors.Newf(errors.ErrorTypeComponentCreation,
				"storage %s requires round_trip_efficiency in (0, 1], got %g",
				g.Name, g.RoundTripEfficiency)
		}
	case GeneratorHydro:
		if g.FlowRange != nil && g.FlowRange.Min > g.FlowRange.Max {
			return nil, errors.Newf(errors.ErrorTypeComponentCreation,
				"hydro generator %s has inverted flow_range", g.Name)
		}
	case GeneratorConsuming:
		if g.ElectricityEfficiency == 0 {
			return nil, errors.Newf(errors.ErrorTypeComponentCreation,
				"consuming technology %s requires electricity_efficiency", g.Name)
		}
	case GeneratorVariable:
		// No extra required fields; resource data arrives as time series.
	default:
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"generator %s has unknown variant %q", g.Name, g.Variant)
	}
	return &g, nil
}

// Interface is a transmission corridor between two regions, aggregating the
// individual lines that connect them.
type Interface struct {
	ComponentBase
	FromRegion *Region       `json:"from_region" yaml:"from_region"`
	ToRegion   *Region       `json:"to_region" yaml:"to_region"`
	FlowLimits *FromToToFrom `json:"flow_limits,omitempty" yaml:"flow_limits,omitempty"`
}

// TypeName implements Component.
func (i *Interface) TypeName() string { return TypeInterface }

// NewInterface validates and returns a transmission Interface.
func NewInterface(i Interface) (*Interface, error) {
	if err := requireName(i.Name, "transmission interface"); err != nil {
		return nil, err
	}
	if i.FromRegion == nil || i.ToRegion == nil {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"transmission interface %s requires both from_region and to_region", i.Name)
	}
	return &i, nil
}

// Line is a single transmission line belonging to an interface.
type Line struct {
	ComponentBase
	Interface  *Interface    `json:"interface" yaml:"interface"`
	TRType     string        `json:"trtype" yaml:"trtype"`
	FlowLimits *FromToToFrom `json:"flow_limits,omitempty" yaml:"flow_limits,omitempty"`
	Losses     float64       `json:"losses,omitempty" yaml:"losses,omitempty"`
}

// TypeName implements Component.
func (l *Line) TypeName() string { return TypeLine }

// NewLine validates and returns a transmission Line.
func NewLine(l Line) (*Line, error) {
	if err := requireName(l.Name, "transmission line"); err != nil {
		return nil, err
	}
	if l.Interface == nil {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"transmission line %s requires an interface", l.Name)
	}
	return &l, nil
}

// Demand is the electricity demand of one region.
type Demand struct {
	ComponentBase
	Region     *Region `json:"region" yaml:"region"`
	PeakDemand float64 `json:"peak_demand,omitempty" yaml:"peak_demand,omitempty"`
}

// TypeName implements Component.
func (d *Demand) TypeName() string { return TypeDemand }

// NewDemand validates and returns a Demand.
func NewDemand(d Demand) (*Demand, error) {
	if err := requireName(d.Name, "demand"); err != nil {
		return nil, err
	}
	if d.Region == nil {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"demand %s requires a region", d.Name)
	}
	return &d, nil
}

// Reserve is an operating-reserve requirement over a reserve region.
type Reserve struct {
	ComponentBase
	Region      *ReserveRegion   `json:"region" yaml:"region"`
	ReserveType ReserveType      `json:"reserve_type" yaml:"reserve_type"`
	Direction   ReserveDirection `json:"direction" yaml:"direction"`
	Duration    float64          `json:"duration,omitempty" yaml:"duration,omitempty"`
	TimeFrame   float64          `json:"time_frame,omitempty" yaml:"time_frame,omitempty"`
}

// TypeName implements Component.
func (r *Reserve) TypeName() string { return TypeReserve }

// NewReserve validates and returns a Reserve.
func NewReserve(r Reserve) (*Reserve, error) {
	if err := requireName(r.Name, "reserve"); err != nil {
		return nil, err
	}
	if r.Region == nil {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"reserve %s requires a reserve region", r.Name)
	}
	if r.ReserveType == "" {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"reserve %s requires a reserve type", r.Name)
	}
	return &r, nil
}

// Emission is a supplemental attribute recording a pollutant emission rate
// for a generator. It is attached to components, not stored as a graph node.
type Emission struct {
	Rate   float64        `json:"rate" yaml:"rate"`
	Type   EmissionType   `json:"type" yaml:"type"`
	Source EmissionSource `json:"source" yaml:"source"`
}

// NewEmission validates an emission rate and defaults the accounting source
// to combustion.
func NewEmission(rate float64, emissionType EmissionType, source EmissionSource) (*Emission, error) {
	if rate < 0 {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"emission rate must be non-negative, got %g", rate)
	}
	if emissionType == "" {
		return nil, errors.New(errors.ErrorTypeComponentCreation,
			"emission requires a type")
	}
	if source == "" {
		source = EmissionSourceCombustion
	}
	return &Emission{Rate: rate, Type: emissionType, Source: source}, nil
}

// Copy returns an independent copy of the emission, so components carrying
// the same rate never share an instance.
func (e *Emission) Copy() *Emission {
	clone := *e
	return &clone
}
