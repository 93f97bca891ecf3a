// Package errs provides standardized error types for the workflow engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ValueIsRequiredError: For when a required value is missing
//   - ValueIsInvalidError: For when a value is invalid
//   - ObjectNotFoundError: For when an entity cannot be found
//   - ConcurrencyConflictError: For when an optimistic version check loses a race
//   - AlreadyExistsError: For uniqueness violations on insert-once records
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// This standardized approach enables error classification with errors.Is at
// every layer: the transition coordinator decides what to retry, and the HTTP
// adapter decides which status code and payload to surface.
package errs
