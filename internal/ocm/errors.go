package ocm

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// The error taxonomy shared by both orchestrators. Every failure surfaced to
// a caller is one of these kinds, carrying enough structured detail to decide
// between retry, abandon and manual cleanup.

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError reports malformed input. It is always raised before any
// remote call is made.
type ValidationError struct {
	Subject string
	Fields  []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(msgs, "; "))
}

// ConflictError reports a name or parameter collision with an existing
// remote entity. It is never resolved by silent overwrite or
// reconfiguration.
type ConflictError struct {
	Resource string
	Name     string
	Detail   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists: %s", e.Resource, e.Name, e.Detail)
}

// NotFoundError reports that a referenced entity is absent remotely.
type NotFoundError struct {
	Resource string
	Name     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Name)
}

// DependencyError reports an ordering or dependency violation, e.g.
// deleting a cluster that still has add-ons, or removing an add-on that
// others depend on without a cascade.
type DependencyError struct {
	Subject    string
	Dependents []string
	Detail     string
}

func (e *DependencyError) Error() string {
	if len(e.Dependents) > 0 {
		return fmt.Sprintf("%s: %s (blocked by: %s)", e.Subject, e.Detail, strings.Join(e.Dependents, ", "))
	}
	return fmt.Sprintf("%s: %s", e.Subject, e.Detail)
}

// PreconditionError reports that the target is not in the state an operation
// requires.
type PreconditionError struct {
	Subject  string
	Required string
	Actual   string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s must be %q, currently %q", e.Subject, e.Required, e.Actual)
}

// AuthenticationError is fatal: beyond the one silent session refresh, it is
// never retried.
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// ProvisioningError reports a terminal failure observed in the remote
// service's own state machine, carrying the remote-reported reason.
type ProvisioningError struct {
	Subject string
	Reason  string
}

func (e *ProvisioningError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s reported a terminal failure", e.Subject)
	}
	return fmt.Sprintf("%s failed: %s", e.Subject, e.Reason)
}

// TimeoutError reports that a local wait exceeded its budget. The remote
// operation may still be in flight: a client timeout never implies a
// server-side abort.
type TimeoutError struct {
	Subject string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out waiting for %s after %s (the remote operation may still be in progress; no cancellation was issued)",
		e.Subject, e.Elapsed.Round(time.Second))
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsDependency reports whether err is a DependencyError.
func IsDependency(err error) bool {
	var e *DependencyError
	return errors.As(err, &e)
}

// IsPrecondition reports whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var e *PreconditionError
	return errors.As(err, &e)
}

// IsAuthentication reports whether err is an AuthenticationError.
func IsAuthentication(err error) bool {
	var e *AuthenticationError
	return errors.As(err, &e)
}

// IsProvisioning reports whether err is a ProvisioningError.
func IsProvisioning(err error) bool {
	var e *ProvisioningError
	return errors.As(err, &e)
}

// IsTimeout reports whether err is a TimeoutError.
func IsTimeout(err error) bool {
	var e *TimeoutError
	return errors.As(err, &e)
}
