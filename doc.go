// Package r2xreeds translates the tabular output of a ReEDS capacity-expansion
// run into a typed, cross-referenced system of power-system components.
//
// ReEDS emits its results as a directory of CSV files with terse column names
// (i, r, v, t) and no relational structure. This module reads those files and
// builds a component graph: regions from the spatial hierarchy, generators
// from the capacity table (classified into thermal, variable, storage, hydro,
// and consuming variants), transmission interfaces and lines, regional demand,
// operating reserves, and per-generator emission rates, together with hourly
// time series for demand, variable generation, and reserve requirements.
//
// # Key Packages
//
//	pkg/parser    - staged builder, construction rules, row getters
//	pkg/models    - component types and their closed enumerations
//	pkg/system    - the in-memory component graph
//	pkg/frame     - tabular layer: eager/lazy frames, CSV, joins
//	pkg/datastore - dataset name to file mapping with templates
//	pkg/config    - run configuration and embedded default tables
//	pkg/sysmod    - post-build transforms such as generator splitting
//
// # Quick Start
//
// Translate a run directory from code:
//
//	cfg, err := config.New(config.ReEDSConfig{
//	    SolveYear:   config.Years{2030},
//	    WeatherYear: config.Years{2012},
//	    Folder:      "/runs/my_case",
//	})
//	store, err := datastore.FromEntries(cfg.Folder, datastore.DefaultEntries(),
//	    datastore.Substitutions{SolveYear: 2030, WeatherYear: 2012, Scenario: cfg.Scenario})
//	p, err := parser.New(cfg, store, "my_case")
//	sys, err := p.BuildSystem()
//
// or from the command line:
//
//	r2x-reeds translate --case /runs/my_case --solve-year 2030 --weather-year 2012
package r2xreeds
