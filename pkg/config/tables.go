package config

import (
	_ "embed"

	"gopkg.in/yaml.v3"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// TechCategory groups ReEDS technology codes under one name. A technology
// belongs to the category when it matches an exact entry or starts with one
// of the prefixes; exact entries win over prefixes.
type TechCategory struct {
	Name     string
	Prefixes []string
	Exact    []string
}

// TechCategories is an ordered list of categories. Order is significant:
// when a technology matches several categories, the first match is its
// primary category.
type TechCategories []TechCategory

// UnmarshalYAML decodes an ordered mapping. Values are either a mapping with
// prefixes/exact lists or a bare sequence treated as prefixes.
func (c *TechCategories) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New(errors.ErrorTypeConfig, "tech_categories must be a mapping")
	}
	out := make(TechCategories, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		cat := TechCategory{Name: keyNode.Value}
		switch valNode.Kind {
		case yaml.SequenceNode:
			if err := valNode.Decode(&cat.Prefixes); err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig,
					"invalid category "+cat.Name)
			}
		case yaml.MappingNode:
			var body struct {
				Prefixes []string `yaml:"prefixes"`
				Exact    []string `yaml:"exact"`
			}
			if err := valNode.Decode(&body); err != nil {
				return errors.Wrap(err, errors.ErrorTypeConfig,
					"invalid category "+cat.Name)
			}
			cat.Prefixes = body.Prefixes
			cat.Exact = body.Exact
		default:
			return errors.Newf(errors.ErrorTypeConfig,
				"category %s must be a list or a mapping", cat.Name)
		}
		out = append(out, cat)
	}
	*c = out
	return nil
}

// Get returns the category with the given name.
func (c TechCategories) Get(name string) (TechCategory, bool) {
	for _, cat := range c {
		if cat.Name == name {
			return cat, true
		}
	}
	return TechCategory{}, false
}

// Names returns the category names in declaration order.
func (c TechCategories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}

// VariantMapping binds a technology category to a generator variant.
type VariantMapping struct {
	Category string
	Variant  string
}

// VariantMappings is the ordered category-to-variant table.
type VariantMappings []VariantMapping

// UnmarshalYAML decodes an ordered mapping of category name to variant.
func (v *VariantMappings) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.New(errors.ErrorTypeConfig, "generator_variants must be a mapping")
	}
	out := make(VariantMappings, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		out = append(out, VariantMapping{
			Category: node.Content[i].Value,
			Variant:  node.Content[i+1].Value,
		})
	}
	*v = out
	return nil
}

// CategoriesForVariant lists the categories mapped to one variant, in table
// order.
func (v VariantMappings) CategoriesForVariant(variant string) []string {
	var out []string
	for _, m := range v {
		if m.Variant == variant {
			out = append(out, m.Category)
		}
	}
	return out
}

// ReserveDefaults parameterizes one operating-reserve product.
type ReserveDefaults struct {
	Direction     string  `yaml:"direction"`
	LoadFraction  float64 `yaml:"load_fraction"`
	WindFraction  float64 `yaml:"wind_fraction"`
	SolarFraction float64 `yaml:"solar_fraction"`
	Duration      float64 `yaml:"duration"`
	TimeFrame     float64 `yaml:"time_frame"`
}

// Defaults are the scalar fallbacks applied when a run omits a value.
type Defaults struct {
	ExcludedTechs         []string                   `yaml:"excluded_techs"`
	StorageDuration       float64                    `yaml:"storage_duration"`
	RoundTripEfficiency   float64                    `yaml:"round_trip_efficiency"`
	CapacityDropThreshold float64                    `yaml:"capacity_drop_threshold_mw"`
	ReserveTypes          map[string]ReserveDefaults `yaml:"reserve_types"`
}

// Tables bundles the five configuration tables the translation consumes.
type Tables struct {
	Defaults          Defaults                      `yaml:"defaults"`
	TechCategories    TechCategories                `yaml:"tech_categories"`
	GeneratorVariants VariantMappings               `yaml:"generator_variants"`
	FuelTypes         map[string]string             `yaml:"fuel_types"`
	PCMDefaults       map[string]map[string]float64 `yaml:"pcm_defaults"`
}

// LoadConfig parses the embedded default tables.
func LoadConfig() (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(defaultsYAML, &t); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig,
			"failed to parse embedded defaults")
	}
	return &t, nil
}

// MustLoadConfig is LoadConfig for initialization paths where the embedded
// tables are known-good.
func MustLoadConfig() *Tables {
	t, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return t
}
