// Package errors classifies the failures the reconciliation engine can
// observe into the taxonomy described for the Retry/Backoff Controller:
// transient, introspector, fatal-introspector, and validation failures.
package errors

import (
	stderrors "errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// FatalIntrospectorErrorToken is the substring that, when present in
// status.message, marks the failure terminal: no retry until a spec edit.
const FatalIntrospectorErrorToken = "FatalIntrospectorError"

// TransientError wraps a failure the Retry/Backoff Controller should retry
// with backoff up to the configured maximum.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return fmt.Sprintf("transient error: %v", e.Err) }
func (e *TransientError) Unwrap() error { return e.Err }

// ValidationError wraps a failure recorded on Domain status that aborts the
// current make-right cycle without being retried on a timer; it is only
// retried when the Domain spec changes.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("validation failed: %s", e.Reason) }

// FatalIntrospectorError marks an introspector failure as terminal.
type FatalIntrospectorError struct {
	Message string
}

func (e *FatalIntrospectorError) Error() string { return e.Message }

// IsTransient reports whether err should be retried with backoff: either it
// is explicitly wrapped as TransientError, or the Kubernetes API server
// classified it as a conflict, timeout, rate limit, or internal server error.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var t *TransientError
	if stderrors.As(err, &t) {
		return true
	}
	return apierrors.IsConflict(err) ||
		apierrors.IsServerTimeout(err) ||
		apierrors.IsTimeout(err) ||
		apierrors.IsTooManyRequests(err) ||
		apierrors.IsInternalError(err)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return stderrors.As(err, &v)
}

// IsFatalIntrospector reports whether err is a FatalIntrospectorError.
func IsFatalIntrospector(err error) bool {
	var f *FatalIntrospectorError
	return stderrors.As(err, &f)
}
