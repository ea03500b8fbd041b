// Package ffi mirrors the host engine's frozen extension interface in Go.
//
// Everything in this package reproduces a contract owned by the engine:
// the variant kind enumeration, the call-error enumeration, the opaque
// pointer types, the callback signatures, and the descriptor structs the
// engine reads field by field. None of it may be reordered or renamed
// without breaking the binary contract; treat the layouts as read-only.
//
// The engine hands the binding layer a single InterfaceTable at load time.
// All traffic with the engine goes through that table; no other channel
// exists. Pointers received from the engine are borrowed unless the
// operation documents a transfer of ownership.
package ffi
