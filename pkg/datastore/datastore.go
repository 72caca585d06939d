// Package datastore maps logical dataset names to files inside a ReEDS case
// directory and hands out lazy frames for them. Templates in file names
// ({solve_year}, {weather_year}, {scenario}) are substituted from the run
// configuration when the store is built.
package datastore

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/SebastianManriqueM/r2x-reeds/pkg/errors"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/frame"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/logger"
)

// Entry describes one dataset: where its file lives relative to the case
// folder and whether a missing file is tolerated.
type Entry struct {
	Name     string `json:"name" yaml:"name"`
	File     string `json:"file" yaml:"file"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty"`
}

// DataStore resolves dataset names to lazy frames.
type DataStore struct {
	folder  string
	entries map[string]Entry
	cache   map[string]*frame.LazyFrame
}

// New creates an empty data store rooted at the given case folder.
func New(folder string) *DataStore {
	return &DataStore{
		folder:  folder,
		entries: make(map[string]Entry),
		cache:   make(map[string]*frame.LazyFrame),
	}
}

// Folder returns the case folder the store reads from.
func (d *DataStore) Folder() string { return d.folder }

// AddEntry registers a dataset. Re-registering a name replaces the entry and
// drops any cached frame for it.
func (d *DataStore) AddEntry(e Entry) error {
	if e.Name == "" {
		return errors.New(errors.ErrorTypeData, "data store entry requires a name")
	}
	if e.File == "" {
		return errors.Newf(errors.ErrorTypeData, "data store entry %s requires a file", e.Name)
	}
	d.entries[e.Name] = e
	delete(d.cache, e.Name)
	return nil
}

// AddFrame registers an already-materialized frame under a dataset name,
// bypassing file loading. Used by tests and by transforms that stage derived
// tables.
func (d *DataStore) AddFrame(name string, f *frame.Frame) error {
	if name == "" {
		return errors.New(errors.ErrorTypeData, "data store entry requires a name")
	}
	d.entries[name] = Entry{Name: name, File: "<in-memory>"}
	d.cache[name] = frame.Eager(f)
	return nil
}

// HasEntry reports whether the dataset name is registered.
func (d *DataStore) HasEntry(name string) bool {
	_, ok := d.entries[name]
	return ok
}

// ListEntries returns the registered dataset names, sorted.
func (d *DataStore) ListEntries() []string {
	names := make([]string, 0, len(d.entries))
	for name := range d.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the resolved absolute path of a dataset's file.
func (d *DataStore) Path(name string) (string, error) {
	e, ok := d.entries[name]
	if !ok {
		return "", errors.Newf(errors.ErrorTypeNotFound,
			"Key %s not found in data store. Check spelling and adjust plugin config", name)
	}
	return filepath.Join(d.folder, e.File), nil
}

// ReadData returns the lazy frame for a dataset. The frame is cached so
// repeated reads share one load. Unknown names are an error; optional
// datasets whose file is absent resolve to an empty frame.
func (d *DataStore) ReadData(name string) (*frame.LazyFrame, error) {
	if lf, ok := d.cache[name]; ok {
		return lf, nil
	}
	e, ok := d.entries[name]
	if !ok {
		return nil, errors.Newf(errors.ErrorTypeNotFound,
			"Key %s not found in data store. Check spelling and adjust plugin config", name)
	}
	path := filepath.Join(d.folder, e.File)
	if _, err := os.Stat(path); err != nil {
		if e.Optional {
			logger.Debug("optional dataset missing, using empty frame",
				zap.String("dataset", name), zap.String("path", path))
			lf := frame.Eager(frame.New())
			d.cache[name] = lf
			return lf, nil
		}
		return nil, errors.Wrap(err, errors.ErrorTypeFile,
			"dataset "+name+" file not found at "+path)
	}
	lf := frame.LazyCSV(path)
	d.cache[name] = lf
	return lf, nil
}

// Substitutions are the template values available to entry file names.
type Substitutions struct {
	SolveYear   int
	WeatherYear int
	Scenario    string
}

// expand replaces {placeholder} tokens in a file template.
func expand(file string, sub Substitutions) string {
	r := strings.NewReplacer(
		"{solve_year}", strconv.Itoa(sub.SolveYear),
		"{weather_year}", strconv.Itoa(sub.WeatherYear),
		"{scenario}", sub.Scenario,
	)
	return r.Replace(file)
}

// FromEntries builds a store from entries, expanding file templates.
func FromEntries(folder string, entries []Entry, sub Substitutions) (*DataStore, error) {
	d := New(folder)
	for _, e := range entries {
		e.File = expand(e.File, sub)
		if err := d.AddEntry(e); err != nil {
			return nil, err
		}
	}
	logger.Info("data store initialized",
		zap.String("folder", folder),
		zap.Int("datasets", len(entries)))
	return d, nil
}
