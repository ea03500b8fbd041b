// Package classdb registers native Go classes with the host object
// system and dispatches incoming calls to them.
//
// A class enters the system as a Descriptor: constructor, destructor,
// optional hooks, and a method set. Register compiles the descriptor
// into the host's creation-info shape, submits it through the interface
// table, and keeps the compiled form for dispatch. Incoming calls
// arrive on two conventions: the generic variant call, which validates
// count, kinds, and metadata before touching the target, and the
// pointer call, which trusts the host's validation and only marshals.
package classdb
