// Package binding maintains the native wrappers attached to engine
// objects. The engine creates a binding lazily the first time one is
// requested, frees it exactly once when the object dies, and reports
// every strong-count transition of reference-counted objects through
// the reference callback. The manager memoizes wrappers per object and
// keeps its own strong counter so the engine knows whether the native
// side is keeping the object alive.
//
// Lifecycle violations (a second create for the same object, freeing
// an unknown binding, a strong count going negative) mean the two
// sides disagree about who owns what. There is no way to continue
// safely, so the manager aborts through its fatal hook.
package binding
