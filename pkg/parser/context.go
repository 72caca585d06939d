package parser

import (
	"github.com/SebastianManriqueM/r2x-reeds/pkg/config"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/datastore"
	"github.com/SebastianManriqueM/r2x-reeds/pkg/system"
)

// Context carries the state getters and rules resolve against: the system
// under construction, the run configuration, the default tables, and the
// data store.
type Context struct {
	System *system.System
	Config *config.ReEDSConfig
	Tables *config.Tables
	Store  *datastore.DataStore
}

// NewContext assembles a parser context.
func NewContext(
	sys *system.System,
	cfg *config.ReEDSConfig,
	tables *config.Tables,
	store *datastore.DataStore,
) *Context {
	return &Context{System: sys, Config: cfg, Tables: tables, Store: store}
}
