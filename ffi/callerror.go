package ffi

import "fmt"

// CallErrorType is the engine's fixed call-failure enumeration.
// Values match the host header; the engine interprets them directly.
type CallErrorType uint32

const (
	CallOK CallErrorType = iota
	CallErrorInvalidMethod
	CallErrorInvalidArgument // expected a different variant kind
	CallErrorTooManyArguments
	CallErrorTooFewArguments
	CallErrorInstanceIsNull
	CallErrorMethodNotConst // mutating method invoked through a const path
)

var callErrorNames = [...]string{
	CallOK:                    "ok",
	CallErrorInvalidMethod:    "invalid method",
	CallErrorInvalidArgument:  "invalid argument",
	CallErrorTooManyArguments: "too many arguments",
	CallErrorTooFewArguments:  "too few arguments",
	CallErrorInstanceIsNull:   "instance is null",
	CallErrorMethodNotConst:   "method not const",
}

func (t CallErrorType) String() string {
	if int(t) < len(callErrorNames) {
		return callErrorNames[t]
	}
	return "unknown"
}

// CallError reports a call failure back to the engine.
// Argument carries the 0-based offending argument index where applicable.
// Expected carries the expected argument count or variant kind, depending
// on the error type. Field order matches the host struct.
type CallError struct {
	Type     CallErrorType
	Argument int32
	Expected int32
}

// OK reports whether the call succeeded.
func (e *CallError) OK() bool {
	return e == nil || e.Type == CallOK
}

func (e *CallError) Error() string {
	switch e.Type {
	case CallErrorInvalidArgument:
		return fmt.Sprintf("invalid argument at index %d: expected %s", e.Argument, VariantKind(e.Expected))
	case CallErrorTooManyArguments, CallErrorTooFewArguments:
		return fmt.Sprintf("%s: expected %d", e.Type, e.Expected)
	default:
		return e.Type.String()
	}
}

// NewCallError builds an error value for the given type with no context.
func NewCallError(t CallErrorType) *CallError {
	return &CallError{Type: t, Argument: -1}
}

// InvalidArgument builds the call error for a kind mismatch at index.
func InvalidArgument(index int, expected VariantKind) *CallError {
	return &CallError{
		Type:     CallErrorInvalidArgument,
		Argument: int32(index),
		Expected: int32(expected),
	}
}

// WrongArgumentCount builds TooFew/TooMany for got versus expected.
func WrongArgumentCount(got, expected int) *CallError {
	t := CallErrorTooFewArguments
	if got > expected {
		t = CallErrorTooManyArguments
	}
	return &CallError{Type: t, Argument: -1, Expected: int32(expected)}
}
