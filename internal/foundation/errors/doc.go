// Package errors provides the classified error primitives used across booksite.
//
// Errors carry a category (config, validation, content, review, ...), a
// severity and a retry hint. The CLI adapter turns them into exit codes and
// log records; the llm client reads the retry hint to decide whether a failed
// request is worth repeating.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryContent, "sidebar target missing").
//		WithContext("target", "/basics/variables").
//		Build()
package errors
