package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the boundary lifecycle the error occurred
type Phase string

const (
	PhaseLoad     Phase = "load"     // interface table acquisition
	PhaseRegister Phase = "register" // class/method registration
	PhaseConvert  Phase = "convert"  // variant <-> native conversion
	PhaseCall     Phase = "call"     // method dispatch
	PhaseBinding  Phase = "binding"  // instance binding lifecycle
	PhaseScript   Phase = "script"   // script instance bridge
)

// Kind categorizes the error
type Kind string

const (
	KindMismatch          Kind = "kind_mismatch"
	KindOverflow          Kind = "overflow"
	KindUnsupported       Kind = "unsupported"
	KindInvalidInput      Kind = "invalid_input"
	KindNotFound          Kind = "not_found"
	KindNilPointer        Kind = "nil_pointer"
	KindDuplicateClass    Kind = "duplicate_class"
	KindMissingCallback   Kind = "missing_callback"
	KindMissingSlot       Kind = "missing_slot"
	KindVersion           Kind = "version_mismatch"
	KindUnknownBinding    Kind = "unknown_binding"
	KindRefCountUnderflow Kind = "refcount_underflow"
	KindListLeak          Kind = "list_leak"
	KindDoubleFree        Kind = "double_free"
	KindRegistration      Kind = "registration"
)

// Error is the structured error type used throughout the binding layer
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	ClassName string
	Method    string
	Expected  string
	Actual    string
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.ClassName != "" {
		b.WriteString(" in ")
		b.WriteString(e.ClassName)
		if e.Method != "" {
			b.WriteByte('.')
			b.WriteString(e.Method)
		}
	} else if e.Method != "" {
		b.WriteString(" in ")
		b.WriteString(e.Method)
	}

	if e.Expected != "" || e.Actual != "" {
		b.WriteString(": expected ")
		b.WriteString(e.Expected)
		if e.Actual != "" {
			b.WriteString(", got ")
			b.WriteString(e.Actual)
		}
	}

	if e.Detail != "" {
		if e.Expected != "" || e.Actual != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Class sets the class name
func (b *Builder) Class(name string) *Builder {
	b.err.ClassName = name
	return b
}

// Method sets the method name
func (b *Builder) Method(name string) *Builder {
	b.err.Method = name
	return b
}

// Expected sets the expected kind or count description
func (b *Builder) Expected(s string) *Builder {
	b.err.Expected = s
	return b
}

// Actual sets the actual kind or count description
func (b *Builder) Actual(s string) *Builder {
	b.err.Actual = s
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// KindMismatchErr creates a variant kind mismatch error
func KindMismatchErr(phase Phase, expected, actual string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindMismatch,
		Expected: expected,
		Actual:   actual,
	}
}

// Overflow creates a numeric narrowing overflow error
func Overflow(phase Phase, value any, target string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		Expected: target,
		Detail:   fmt.Sprintf("value %v does not fit %s", value, target),
	}
}

// DuplicateClass creates a duplicate class registration error
func DuplicateClass(name string) *Error {
	return &Error{
		Phase:     PhaseRegister,
		Kind:      KindDuplicateClass,
		ClassName: name,
		Detail:    "class is already registered in this module load",
	}
}

// MissingCallback creates a malformed-descriptor error for an absent
// mandatory callback
func MissingCallback(class, callback string) *Error {
	return &Error{
		Phase:     PhaseRegister,
		Kind:      KindMissingCallback,
		ClassName: class,
		Detail:    fmt.Sprintf("mandatory callback %s is not set", callback),
	}
}

// MissingSlot creates an interface-table validation error
func MissingSlot(slot string) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindMissingSlot,
		Detail: fmt.Sprintf("interface table slot %s is nil", slot),
	}
}

// VersionMismatch creates a host version compatibility error
func VersionMismatch(want, got string) *Error {
	return &Error{
		Phase:    PhaseLoad,
		Kind:     KindVersion,
		Expected: want,
		Actual:   got,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Detail: fmt.Sprintf("%s is nil", what),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Registration wraps a per-class failure reported at module load
func Registration(class string, cause error) *Error {
	return &Error{
		Phase:     PhaseRegister,
		Kind:      KindRegistration,
		ClassName: class,
		Detail:    "class registration failed",
		Cause:     cause,
	}
}

// UnknownBinding creates a binding-consistency error for an unrecognized
// binding pointer. Callers treat this as unrecoverable.
func UnknownBinding(detail string) *Error {
	return &Error{
		Phase:  PhaseBinding,
		Kind:   KindUnknownBinding,
		Detail: detail,
	}
}

// RefCountUnderflow creates a binding-consistency error for a strong
// count dropping below zero. Callers treat this as unrecoverable.
func RefCountUnderflow(detail string) *Error {
	return &Error{
		Phase:  PhaseBinding,
		Kind:   KindRefCountUnderflow,
		Detail: detail,
	}
}

// ListLeak creates a script bridge error for a property or method list
// that was handed out and never freed
func ListLeak(count int) *Error {
	return &Error{
		Phase:  PhaseScript,
		Kind:   KindListLeak,
		Detail: fmt.Sprintf("%d list(s) still outstanding at free", count),
	}
}

// DoubleFree creates a script bridge error for freeing a list twice
func DoubleFree(what string) *Error {
	return &Error{
		Phase:  PhaseScript,
		Kind:   KindDoubleFree,
		Detail: fmt.Sprintf("%s was already freed", what),
	}
}
