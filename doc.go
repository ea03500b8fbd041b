// Package gdext implements the native side of the engine's extension
// ABI: everything between a table of host function pointers handed
// over at load time and idiomatic Go classes running inside the
// engine's object system.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	gdext/           Root package: library entry, init levels, logging
//	├── ffi/         Mirror of the host interface table, enums, and
//	│                callback shapes
//	├── variant/     Native value model and the boundary codec
//	├── classdb/     Class registration and method dispatch
//	├── binding/     Per-object native wrapper lifecycle
//	├── script/      Dynamic script instance bridge
//	├── errors/      Structured error types for debugging
//	└── enginetest/  In-process fake host for tests
//
// # Quick Start
//
// The host calls the library's entry point with the interface table
// and a library handle. From there:
//
//	ext, err := gdext.Load(table, &gdext.Library{
//	    Name:     "combat",
//	    Handle:   library,
//	    MinLevel: gdext.LevelScene,
//	    OnInit: func(ext *gdext.Extension, level gdext.InitLevel) {
//	        if level != gdext.LevelScene {
//	            return
//	        }
//	        ext.Registry().Register(&classdb.Descriptor{
//	            Name:        "Turret",
//	            Parent:      "Node3D",
//	            Constructor: func() any { return &Turret{} },
//	            Destructor:  func(any) {},
//	        })
//	    },
//	})
//	if err != nil {
//	    return err
//	}
//
// The engine then drives initialization level by level; Initialize and
// Deinitialize forward the transitions to the library's hooks.
//
// # Calling Conventions
//
// Incoming method calls arrive on two paths. The generic path delivers
// variant cells and is fully validated: argument count, per-argument
// kinds, and declared numeric widths are all checked before the method
// body runs, and failures are reported through the host's call error
// structure. The pointer path delivers raw typed memory and trusts the
// host's prior validation; only marshaling and return narrowing happen
// there. Panics in method bodies never cross the boundary on either
// path.
package gdext
