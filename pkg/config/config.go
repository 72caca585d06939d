// Package config holds the run configuration for a ReEDS translation and the
// embedded default tables (technology categories, fuel mappings, operating
// defaults) that drive component construction.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
)

// Years holds one or more model years. It unmarshals from either a scalar or
// a sequence so run configs can say `solve_year: 2030` or
// `solve_year: [2030, 2040]`.
type Years []int

// UnmarshalYAML implements yaml.Unmarshaler.
func (y *Years) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var single int
		if err := node.Decode(&single); err != nil {
			return fmt.Errorf("invalid year value: %w", err)
		}
		*y = Years{single}
		return nil
	case yaml.SequenceNode:
		var many []int
		if err := node.Decode(&many); err != nil {
			return fmt.Errorf("invalid year list: %w", err)
		}
		*y = many
		return nil
	default:
		return fmt.Errorf("years must be an integer or a list of integers")
	}
}

// Primary returns the first year, the one the translation runs against.
func (y Years) Primary() (int, error) {
	if len(y) == 0 {
		return 0, errors.New(errors.ErrorTypeConfig, "no years configured")
	}
	return y[0], nil
}

// Contains reports whether the year is configured.
func (y Years) Contains(year int) bool {
	for _, v := range y {
		if v == year {
			return true
		}
	}
	return false
}

// ReEDSConfig identifies one ReEDS run to translate.
type ReEDSConfig struct {
	SolveYear   Years  `json:"solve_year" yaml:"solve_year" mapstructure:"solve_year"`
	WeatherYear Years  `json:"weather_year" yaml:"weather_year" mapstructure:"weather_year"`
	CaseName    string `json:"case_name,omitempty" yaml:"case_name,omitempty" mapstructure:"case_name"`
	Scenario    string `json:"scenario,omitempty" yaml:"scenario,omitempty" mapstructure:"scenario"`
	Folder      string `json:"folder,omitempty" yaml:"folder,omitempty" mapstructure:"folder"`
}

// New builds a config with defaults applied and required fields checked.
func New(cfg ReEDSConfig) (*ReEDSConfig, error) {
	if len(cfg.SolveYear) == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "solve_year is required")
	}
	if len(cfg.WeatherYear) == 0 {
		return nil, errors.New(errors.ErrorTypeConfig, "weather_year is required")
	}
	if cfg.Scenario == "" {
		cfg.Scenario = "base"
	}
	return &cfg, nil
}

// PrimarySolveYear returns the first configured solve year.
func (c *ReEDSConfig) PrimarySolveYear() int {
	year, _ := c.SolveYear.Primary()
	return year
}

// PrimaryWeatherYear returns the first configured weather year.
func (c *ReEDSConfig) PrimaryWeatherYear() int {
	year, _ := c.WeatherYear.Primary()
	return year
}

// ParseYAML decodes a run config from YAML and applies defaults.
func ParseYAML(data []byte) (*ReEDSConfig, error) {
	var cfg ReEDSConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to parse run config")
	}
	return New(cfg)
}
