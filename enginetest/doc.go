// Package enginetest provides an in-process stand-in for the host
// engine: a fully populated interface table backed by Go maps, plus
// driver methods that imitate what the engine does around it
// (constructing objects, dispatching calls, walking the binding
// lifecycle). Tests run the real binding layer against it without a
// native host.
package enginetest
