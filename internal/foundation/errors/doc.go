// Package errors provides the classified error primitives used across aboutme.
//
// A ClassifiedError carries a category, a severity and a retry hint next to a
// message and an optional cause. Adapters turn classified errors into HTTP
// responses and CLI exit codes so that storage and auth failures surface the
// same way on every boundary.
//
// Example usage:
//
//	err := errors.StorageWriteError("failed to persist document").
//		WithContext("path", path).
//		WithCause(ioErr).
//		Build()
package errors
