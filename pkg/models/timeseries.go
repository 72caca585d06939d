package models

import (
	"time"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
)

// SingleTimeSeries is a fixed-resolution series of values associated with a
// component, typically hourly profiles keyed by a variable name such as
// "max_active_power".
type SingleTimeSeries struct {
	Name       string        `json:"name" yaml:"name"`
	Start      time.Time     `json:"start" yaml:"start"`
	Resolution time.Duration `json:"resolution" yaml:"resolution"`
	Data       []float64     `json:"data" yaml:"data"`
}

// NewSingleTimeSeries validates and returns a time series.
func NewSingleTimeSeries(name string, start time.Time, resolution time.Duration, data []float64) (*SingleTimeSeries, error) {
	if name == "" {
		return nil, errors.New(errors.ErrorTypeComponentCreation, "time series requires a name")
	}
	if resolution <= 0 {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"time series %s requires a positive resolution", name)
	}
	if len(data) == 0 {
		return nil, errors.Newf(errors.ErrorTypeComponentCreation,
			"time series %s requires data", name)
	}
	return &SingleTimeSeries{Name: name, Start: start, Resolution: resolution, Data: data}, nil
}

// Length returns the number of points in the series.
func (ts *SingleTimeSeries) Length() int { return len(ts.Data) }

// Copy returns a deep copy of the series so replacements created by graph
// transforms do not alias the original's backing array.
func (ts *SingleTimeSeries) Copy() *SingleTimeSeries {
	data := make([]float64, len(ts.Data))
	copy(data, ts.Data)
	return &SingleTimeSeries{Name: ts.Name, Start: ts.Start, Resolution: ts.Resolution, Data: data}
}
