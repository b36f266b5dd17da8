package stackla

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies an HTTP failure by status code.
type ErrorKind string

// Error kinds reported by the transport.
const (
	ErrorKindBadRequest        ErrorKind = "BadRequest"
	ErrorKindUnauthorized      ErrorKind = "Unauthorized"
	ErrorKindRateLimitExceeded ErrorKind = "RateLimitExceeded"
	ErrorKindNotFound          ErrorKind = "NotFound"
	ErrorKindServerError       ErrorKind = "ServerError"
)

// KindForStatus maps an HTTP status code of 400 or above to its error kind.
func KindForStatus(statusCode int) ErrorKind {
	switch statusCode {
	case http.StatusBadRequest:
		return ErrorKindBadRequest
	case http.StatusUnauthorized:
		return ErrorKindUnauthorized
	case http.StatusForbidden:
		return ErrorKindRateLimitExceeded
	case http.StatusNotFound:
		return ErrorKindNotFound
	default:
		return ErrorKindServerError
	}
}

// Description returns the human readable explanation of the kind.
func (k ErrorKind) Description() string {
	switch k {
	case ErrorKindBadRequest:
		return "Bad request: the request could not be understood"
	case ErrorKindUnauthorized:
		return "Unauthorized: authentication credentials invalid or not authorised to access resource"
	case ErrorKindRateLimitExceeded:
		return "Rate limit exceeded: too many requests in the current time window"
	case ErrorKindNotFound:
		return "Invalid resource: invalid resource specified or resource not found"
	default:
		return "Server error: an error on the server prohibited a successful response; please contact support"
	}
}

// APIError represents a failed call to the API. Body holds the raw response
// body verbatim.
type APIError struct {
	Kind       ErrorKind    `json:"kind"              yaml:"kind"`
	StatusCode int          `json:"status_code"       yaml:"status_code"`
	Reason     string       `json:"reason,omitempty"  yaml:"reason,omitempty"`
	Body       string       `json:"body,omitempty"    yaml:"body,omitempty"`
	Errors     []FieldError `json:"errors,omitempty"  yaml:"errors,omitempty"`
}

// NewAPIError builds the APIError for a response with status 400 or above.
func NewAPIError(statusCode int, reason string, body []byte) *APIError {
	apiErr := &APIError{
		Kind:       KindForStatus(statusCode),
		StatusCode: statusCode,
		Reason:     reason,
		Body:       string(body),
	}

	var envelope struct {
		Errors json.RawMessage `json:"errors"`
	}

	if json.Unmarshal(body, &envelope) == nil && len(envelope.Errors) > 0 {
		apiErr.Errors = ParseFieldErrors(envelope.Errors)
	}

	return apiErr
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return string(e.Kind)
	}

	msg := fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Kind.Description())
	if len(e.Errors) > 0 {
		msg += fmt.Sprintf(" (%s)", e.Errors[0])
	}

	return msg
}

// Is matches another APIError of the same kind. A target without a status
// code, such as ErrNotFound, matches any status of that kind.
func (e *APIError) Is(target error) bool {
	other, ok := target.(*APIError)
	if !ok {
		return false
	}

	return other.Kind == e.Kind && (other.StatusCode == 0 || other.StatusCode == e.StatusCode)
}

// Common error types.
var (
	ErrBadRequest        = &APIError{Kind: ErrorKindBadRequest}
	ErrUnauthorized      = &APIError{Kind: ErrorKindUnauthorized}
	ErrRateLimitExceeded = &APIError{Kind: ErrorKindRateLimitExceeded}
	ErrNotFound          = &APIError{Kind: ErrorKindNotFound}
	ErrServerError       = &APIError{Kind: ErrorKindServerError}
)

// Static errors for err113 compliance.
var (
	ErrAccessorNotFound    = errors.New("accessor not found")
	ErrDeserialization     = errors.New("cannot deserialize response")
	ErrStaleObject         = errors.New("placeholder object has no up-to-date data; pass force to update it anyway")
	ErrUnknownKind         = errors.New("unknown resource kind")
	ErrMissingID           = errors.New("resource has no id")
	ErrMissingToken        = errors.New("credentials have no token")
	ErrConfigRequired      = errors.New("config is required")
	ErrHostRequired        = errors.New("host is required")
	ErrStackRequired       = errors.New("stack is required")
	ErrCredentialsRequired = errors.New("credentials are required")
	ErrOAuthClientRequired = errors.New("OAuth2 client ID, secret and redirect URL are required")
	ErrWidgetHasChildren   = errors.New("widget is the parent of other widgets")
	ErrNoSession           = errors.New("no session returned by token exchange")
)

// IsBadRequest checks if the error is a 400 response.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// IsUnauthorized checks if the error is a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsRateLimitExceeded checks if the error is a 403 response.
func IsRateLimitExceeded(err error) bool {
	return errors.Is(err, ErrRateLimitExceeded)
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsServerError checks if the error is any other failed response.
func IsServerError(err error) bool {
	return errors.Is(err, ErrServerError)
}

// FieldError is a server-side or local validation problem with one property.
type FieldError struct {
	Property string `json:"property" yaml:"property"`
	Message  string `json:"message"  yaml:"message"`
}

// String implements fmt.Stringer.
func (e FieldError) String() string {
	if e.Property == "" {
		return e.Message
	}

	return e.Property + ": " + e.Message
}

// ParseFieldErrors decodes the "errors" member of a response. The API usually
// sends a list of {property, message} objects; bare strings and a single
// object are accepted too. The result is never nil.
func ParseFieldErrors(raw json.RawMessage) []FieldError {
	fieldErrors := []FieldError{}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		items = []json.RawMessage{raw}
	}

	for _, item := range items {
		var structured FieldError
		if err := json.Unmarshal(item, &structured); err == nil && (structured.Property != "" || structured.Message != "") {
			fieldErrors = append(fieldErrors, structured)

			continue
		}

		var text string
		if err := json.Unmarshal(item, &text); err == nil && text != "" {
			fieldErrors = append(fieldErrors, FieldError{Message: text})
		}
	}

	return fieldErrors
}
