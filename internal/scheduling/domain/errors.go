package domain

import (
	"errors"
	"fmt"
)

// ErrExternalService is matched by every ExternalServiceError.
var ErrExternalService = errors.New("external service failed")

// ExternalServiceError wraps a failure of the calendar or advisor. It is
// logged and replaced by a fallback, never returned to callers of a build.
type ExternalServiceError struct {
	Service string
	Err     error
}

// NewExternalServiceError wraps err for service.
func NewExternalServiceError(service string, err error) *ExternalServiceError {
	return &ExternalServiceError{Service: service, Err: err}
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

func (e *ExternalServiceError) Is(target error) bool {
	return target == ErrExternalService
}
