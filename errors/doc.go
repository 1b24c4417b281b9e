// Package errors provides structured error types for the mirror library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: class and member names, resolved type
// names, a field path, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseInvoke, errors.KindTypeMismatch).
//		Class("Counter").
//		Name("increment").
//		Path("args", "0").
//		Detail("cannot convert string to int").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.MethodNotFound("Counter", "bump")
//	err := errors.ArityMismatch(errors.PhaseInvoke, "Counter", "increment", 0, 1)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
