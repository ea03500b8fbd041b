// Package script bridges native dynamic instances into the engine's
// scripting protocol. An Instance supplies properties and methods by
// name; Attach wraps it in the host's script-instance callback table
// and hands back the engine-side handle.
//
// Property and method lists cross the boundary in borrowed form: the
// engine must return every list through the matching free callback
// exactly once. The bridge counts outstanding lists per instance,
// flags a free without a matching get, and reports leaks when the
// instance itself is freed.
package script
