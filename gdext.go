package gdext

import (
	"go.uber.org/zap"

	"github.com/wirebound/gdext/binding"
	"github.com/wirebound/gdext/classdb"
	"github.com/wirebound/gdext/errors"
	"github.com/wirebound/gdext/ffi"
	"github.com/wirebound/gdext/script"
)

// InitLevel is one stage of the host's startup and shutdown sequence.
// The host walks levels upward during initialization and downward
// during teardown, calling the library at each one.
type InitLevel uint32

const (
	LevelCore InitLevel = iota
	LevelServers
	LevelScene
	LevelEditor
)

var levelNames = [...]string{
	LevelCore:    "core",
	LevelServers: "servers",
	LevelScene:   "scene",
	LevelEditor:  "editor",
}

func (l InitLevel) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// Library describes one extension library to Load. Handle is the
// opaque identity the host assigned this library; it tags every
// registration made on its behalf.
type Library struct {
	Name     string
	Handle   ffi.ClassLibraryPtr
	MinLevel InitLevel

	// OnInit runs once per level at or above MinLevel, in ascending
	// order. OnDeinit runs in descending order. Either may be nil.
	OnInit   func(ext *Extension, level InitLevel)
	OnDeinit func(ext *Extension, level InitLevel)
}

// Extension is one loaded library: the validated table plus the
// registry and bridges built over it.
type Extension struct {
	lib      *Library
	table    *ffi.InterfaceTable
	version  ffi.Version
	registry *classdb.Registry
	scripts  *script.Bridge
}

// Load validates the host table and builds the extension runtime over
// it. It is the single entry into the library; nothing touches the
// table before Validate passes.
func Load(table *ffi.InterfaceTable, lib *Library) (*Extension, error) {
	if lib == nil {
		return nil, errors.NilPointer(errors.PhaseLoad, "library description")
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	version := table.GetVersion()
	Logger().Info("extension loaded",
		zap.String("library", lib.Name),
		zap.String("host_version", version.String),
		zap.Uint32("major", version.Major),
		zap.Uint32("minor", version.Minor))

	return &Extension{
		lib:      lib,
		table:    table,
		version:  version,
		registry: classdb.NewRegistry(table, lib.Handle),
		scripts:  script.NewBridge(table),
	}, nil
}

// Table returns the validated host table.
func (e *Extension) Table() *ffi.InterfaceTable { return e.table }

// Version returns the host version captured at load.
func (e *Extension) Version() ffi.Version { return e.version }

// Registry returns the class registry for this library.
func (e *Extension) Registry() *classdb.Registry { return e.registry }

// Scripts returns the script instance bridge for this library.
func (e *Extension) Scripts() *script.Bridge { return e.scripts }

// NewBindingManager builds a binding manager whose wrappers come from
// factory. Each manager has its own token; a library may run several
// for distinct wrapper families.
func (e *Extension) NewBindingManager(factory binding.Factory) *binding.Manager {
	return binding.NewManager(e.table, factory)
}

// Initialize forwards one upward level transition to the library.
// Levels below the library's minimum are skipped.
func (e *Extension) Initialize(level InitLevel) {
	if level < e.lib.MinLevel {
		return
	}
	Logger().Debug("initialize", zap.Stringer("level", level))
	if e.lib.OnInit != nil {
		e.lib.OnInit(e, level)
	}
}

// Deinitialize forwards one downward level transition to the library.
func (e *Extension) Deinitialize(level InitLevel) {
	if level < e.lib.MinLevel {
		return
	}
	Logger().Debug("deinitialize", zap.Stringer("level", level))
	if e.lib.OnDeinit != nil {
		e.lib.OnDeinit(e, level)
	}
}
