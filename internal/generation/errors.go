package generation

import (
	"errors"
	"fmt"

	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/redact"
)

// ErrorKind is the stable, machine-readable classification of a provider failure.
type ErrorKind string

const (
	KindInvalidCredential ErrorKind = "invalid_credential"
	KindQuotaExceeded     ErrorKind = "quota_exceeded"
	KindRateLimited       ErrorKind = "rate_limited"
	KindForbidden         ErrorKind = "forbidden"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindUnknownProvider   ErrorKind = "unknown_provider"
	KindTransportFailure  ErrorKind = "transport_failure"
)

// Sentinels, one per kind, so callers can use errors.Is against any ProviderError.
var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrQuotaExceeded     = errors.New("quota exceeded")
	ErrRateLimited       = errors.New("rate limited")
	ErrForbidden         = errors.New("forbidden")
	ErrMalformedResponse = errors.New("malformed response")
	ErrUnknownProvider   = errors.New("unknown provider")
	ErrTransportFailure  = errors.New("transport failure")

	// ErrInvalidConfig is returned when an adapter or prompt template is misconfigured.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidCredential: ErrInvalidCredential,
	KindQuotaExceeded:     ErrQuotaExceeded,
	KindRateLimited:       ErrRateLimited,
	KindForbidden:         ErrForbidden,
	KindMalformedResponse: ErrMalformedResponse,
	KindUnknownProvider:   ErrUnknownProvider,
	KindTransportFailure:  ErrTransportFailure,
}

// ProviderError is the tagged failure every adapter reports. It is propagated
// to the caller unchanged.
type ProviderError struct {
	Kind     ErrorKind
	Provider domain.ProviderID
	// StatusCode is the upstream status code, or 0 when none was received.
	StatusCode int
	// Message is human readable and never contains the credential.
	Message string
	// Err is the underlying cause, if any.
	Err error
}

// NewProviderError builds a ProviderError. cause may be nil.
func NewProviderError(kind ErrorKind, provider domain.ProviderID, status int, message string, cause error) *ProviderError {
	return &ProviderError{
		Kind:       kind,
		Provider:   provider,
		StatusCode: status,
		Message:    message,
		Err:        cause,
	}
}

func (e *ProviderError) Error() string {
	prefix := string(e.Kind)
	if e.Provider != "" {
		prefix = fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d): %s", prefix, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel belonging to the error's kind.
func (e *ProviderError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && target == sentinel
}

// Retryable reports whether the caller may reasonably retry later.
func (e *ProviderError) Retryable() bool {
	return e.Kind == KindQuotaExceeded || e.Kind == KindRateLimited
}

// ScrubCredential removes every occurrence of credential from the message and
// returns e. Backends sometimes echo the key they rejected.
func (e *ProviderError) ScrubCredential(credential string) *ProviderError {
	e.Message = redact.Credential(e.Message, credential)
	return e
}

// KindOf extracts the ErrorKind from err, if err wraps a ProviderError.
func KindOf(err error) (ErrorKind, bool) {
	var pErr *ProviderError
	if errors.As(err, &pErr) {
		return pErr.Kind, true
	}
	return "", false
}
