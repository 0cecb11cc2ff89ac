// Package errors provides structured error types for the dynmsg library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: field path, declared field
// kind, required kind, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSet, errors.KindKindMismatch).
//		Path("Person", "age").
//		FieldKind("int32").
//		WantKind("string").
//		Detail("cannot store a string handle in a scalar field").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.KindMismatch(errors.PhaseSet, path, "int32", "string")
//	err := errors.OutOfBounds(errors.PhaseGet, path, 10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
