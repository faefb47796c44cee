package doapi

import (
	"errors"
	"fmt"
	"time"
)

// APIError is the provider's error body: {"id": <slug>, "message": <text>}.
type APIError struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s (status: %d)", e.ID, e.Message, e.StatusCode)
}

// AccessDeniedError is returned for 401 responses. The message is surfaced
// verbatim from the provider.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string {
	return "access denied: " + e.Message
}

// NotFoundError is returned when a single-resource fetch yields 404. An
// empty list is not an error; this type applies to single resources only.
type NotFoundError struct {
	URL     string
	Message string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("resource not found: %s (%s)", e.Message, e.URL)
}

// ConflictError is returned when a creation request names a resource that
// already exists. Creation operations fold this into a CreateResult; it
// only escapes when the caller issues the raw request itself.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Message
}

// OperationInProgressError is returned when the provider rejects a request
// because another operation on the same resource has not finished yet.
type OperationInProgressError struct {
	Message string
}

func (e *OperationInProgressError) Error() string {
	return "operation in progress: " + e.Message
}

// UnprocessableError is returned for 422 responses whose message matches no
// known phrase. The individual parameters were syntactically valid but the
// provider rejected the request.
type UnprocessableError struct {
	ID      string
	Message string
}

func (e *UnprocessableError) Error() string {
	return fmt.Sprintf("unprocessable request: %s (%s)", e.Message, e.ID)
}

// UnsupportedCombinationError is returned when the provider reports that a
// combination of parameters (for example size and region) is unsupported,
// even though each parameter is valid in isolation.
type UnsupportedCombinationError struct {
	Message string
}

func (e *UnsupportedCombinationError) Error() string {
	return "unsupported parameter combination: " + e.Message
}

// TooManyRequestsError is returned for 429 responses. SleepFor is the
// duration the caller must wait before the next request; see
// RateLimit.SleepDuration for how it is derived from the response headers.
type TooManyRequestsError struct {
	RateLimit RateLimit
	SleepFor  time.Duration
}

func (e *TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests: %d/hour, %d/minute allowed, retry in %s",
		e.RateLimit.LimitPerHour, e.RateLimit.LimitPerMinute, e.SleepFor)
}

// PendingDeletionError is returned when a creation conflicts with a resource
// that cannot be retrieved because it is mid-deletion: its name is still
// reserved but it is invisible to list and get calls.
type PendingDeletionError struct {
	Name string
}

func (e *PendingDeletionError) Error() string {
	return fmt.Sprintf("a resource named %q is pending deletion; its name is still reserved", e.Name)
}

// TimeoutError is returned when a polling operation exhausts its time budget
// without reaching the target state.
type TimeoutError struct {
	Resource  string
	Target    string
	LastState string
	Quota     time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s to reach state %q (last state: %q)",
		e.Quota, e.Resource, e.Target, e.LastState)
}

// UnexpectedResponseError reports a status/body combination outside the
// known taxonomy. It indicates that the provider's contract changed or the
// client has a bug, and is never folded into a recoverable condition. The
// full request and response are embedded for postmortem debugging.
type UnexpectedResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *UnexpectedResponseError) Error() string {
	return fmt.Sprintf("unexpected response for %s %s: status %d, body: %s",
		e.Method, e.URL, e.StatusCode, e.Body)
}

// Static errors that can be wrapped with context.
var (
	ErrClientClosed     = errors.New("client is closed")
	ErrConfigRequired   = errors.New("config is required")
	ErrTokenRequired    = errors.New("access token is required")
	ErrNameRequired     = errors.New("resource name is required")
	ErrNoDefaultProject = errors.New("no default project configured")
)

// IsNotFound reports whether err is a resource-not-found error.
func IsNotFound(err error) bool {
	var target *NotFoundError

	return errors.As(err, &target)
}

// IsAccessDenied reports whether err is an authentication failure.
func IsAccessDenied(err error) bool {
	var target *AccessDeniedError

	return errors.As(err, &target)
}

// IsConflict reports whether err is a creation naming conflict.
func IsConflict(err error) bool {
	var target *ConflictError

	return errors.As(err, &target)
}

// IsTooManyRequests reports whether err is a rate-limit rejection.
func IsTooManyRequests(err error) bool {
	var target *TooManyRequestsError

	return errors.As(err, &target)
}

// IsPendingDeletion reports whether err indicates a name reserved by a
// resource that is mid-deletion.
func IsPendingDeletion(err error) bool {
	var target *PendingDeletionError

	return errors.As(err, &target)
}

// IsTimeout reports whether err is a poll-loop timeout.
func IsTimeout(err error) bool {
	var target *TimeoutError

	return errors.As(err, &target)
}

// IsUnexpectedResponse reports whether err is a provider contract violation.
// Callers should treat this as a defect rather than a runtime condition.
func IsUnexpectedResponse(err error) bool {
	var target *UnexpectedResponseError

	return errors.As(err, &target)
}
