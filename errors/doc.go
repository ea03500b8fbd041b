// Package errors provides structured error types for the binding layer.
//
// Errors are categorized by Phase (where in the boundary lifecycle the
// error occurred) and Kind (error category). The Error type includes rich
// context: class and method names, expected versus actual variant kinds,
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindMismatch).
//		Class("Enemy").
//		Expected("String").
//		Actual("int").
//		Detail("argument 0 has the wrong variant kind").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DuplicateClass("Enemy")
//	err := errors.KindMismatch(errors.PhaseConvert, "String", "int")
//
// Call failures reported back to the engine use the fixed ffi.CallError
// enumeration instead; this package covers the native-side diagnostics
// for loading, registration, conversion and binding consistency.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
