// Package models defines the typed power-system components produced by the
// converter: regions, generators and their variants, transmission, demand,
// reserves, and the emission supplemental attribute, together with the closed
// enumerations used to classify them.
package models

// ReserveType is the closed enumeration of operating-reserve products.
type ReserveType string

const (
	// ReserveTypeSpinning is the spinning reserve product.
	ReserveTypeSpinning ReserveType = "SPINNING"
	// ReserveTypeFlexibility is the flexibility reserve product.
	ReserveTypeFlexibility ReserveType = "FLEXIBILITY"
	// ReserveTypeRegulation is the regulation reserve product.
	ReserveTypeRegulation ReserveType = "REGULATION"
)

// ReserveTypes lists every reserve product.
var ReserveTypes = []ReserveType{
	ReserveTypeSpinning,
	ReserveTypeFlexibility,
	ReserveTypeRegulation,
}

// ReserveDirection is the closed enumeration of reserve directions.
type ReserveDirection string

const (
	// ReserveDirectionUp is upward reserve.
	ReserveDirectionUp ReserveDirection = "Up"
	// ReserveDirectionDown is downward reserve.
	ReserveDirectionDown ReserveDirection = "Down"
)

// ReserveDirections lists every reserve direction.
var ReserveDirections = []ReserveDirection{ReserveDirectionUp, ReserveDirectionDown}

// EmissionType is the closed enumeration of tracked pollutants.
type EmissionType string

const (
	// EmissionTypeCO2 is carbon dioxide.
	EmissionTypeCO2 EmissionType = "CO2"
	// EmissionTypeCO2E is carbon dioxide equivalent.
	EmissionTypeCO2E EmissionType = "CO2E"
	// EmissionTypeSO2 is sulfur dioxide.
	EmissionTypeSO2 EmissionType = "SO2"
	// EmissionTypeNOx is nitrogen oxides.
	EmissionTypeNOx EmissionType = "NOx"
	// EmissionTypeCH4 is methane.
	EmissionTypeCH4 EmissionType = "CH4"
	// EmissionTypeN2O is nitrous oxide.
	EmissionTypeN2O EmissionType = "N2O"
)

// EmissionTypes lists every tracked pollutant.
var EmissionTypes = []EmissionType{
	EmissionTypeCO2,
	EmissionTypeCO2E,
	EmissionTypeSO2,
	EmissionTypeNOx,
	EmissionTypeCH4,
	EmissionTypeN2O,
}

// EmissionSource is the closed enumeration of pollutant accounting stages.
type EmissionSource string

const (
	// EmissionSourceCombustion accounts emissions released at combustion.
	EmissionSourceCombustion EmissionSource = "COMBUSTION"
	// EmissionSourcePrecombustion accounts upstream/process emissions.
	EmissionSourcePrecombustion EmissionSource = "PRECOMBUSTION"
)

// GeneratorVariant is the closed tagged variant of generator technologies.
type GeneratorVariant string

const (
	// GeneratorThermal is a fuel-burning dispatchable unit.
	GeneratorThermal GeneratorVariant = "thermal"
	// GeneratorVariable is a variable/renewable resource unit.
	GeneratorVariable GeneratorVariant = "variable"
	// GeneratorStorage is an energy storage unit.
	GeneratorStorage GeneratorVariant = "storage"
	// GeneratorHydro is a hydro unit.
	GeneratorHydro GeneratorVariant = "hydro"
	// GeneratorConsuming is an electricity-consuming technology such as an
	// electrolyzer, modeled on the generation side with negative net output.
	GeneratorConsuming GeneratorVariant = "consuming"
)

// KnownFuelTypes is the validated set of fuel identifiers, all lower case.
var KnownFuelTypes = map[string]struct{}{
	"naturalgas": {},
	"coal":       {},
	"uranium":    {},
	"oil":        {},
	"distillate": {},
	"biomass":    {},
	"hydrogen":   {},
	"geothermal": {},
	"h2-ct":      {},
	"municipal-solid-waste": {},
}
