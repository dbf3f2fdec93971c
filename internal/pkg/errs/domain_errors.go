package errs

import "errors"

// Cross-layer markers used to categorize failures at the boundary
var (
	// Lookup errors
	ErrEventNotFound        = errors.New("event not found")
	ErrChangeRecordNotFound = errors.New("change record not found")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
