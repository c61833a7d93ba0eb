package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/giftwise/internal/api/shared"
	"github.com/phrazzld/giftwise/internal/domain"
	"github.com/phrazzld/giftwise/internal/generation"
)

// KindValidation labels request validation failures in error responses.
const KindValidation = "validation"

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, generation.ErrInvalidCredential):
		return http.StatusUnauthorized

	case errors.Is(err, generation.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, generation.ErrMalformedResponse):
		return http.StatusUnprocessableEntity

	case errors.Is(err, generation.ErrUnknownProvider),
		errors.Is(err, domain.ErrUnknownProvider):
		return http.StatusBadRequest

	case errors.Is(err, generation.ErrQuotaExceeded),
		errors.Is(err, generation.ErrRateLimited):
		return http.StatusTooManyRequests

	case errors.Is(err, generation.ErrTransportFailure):
		return http.StatusBadGateway

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrInvalidBody),
		isValidatorError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. Provider
// messages are already credential-free and redacted, so they pass through.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var pErr *generation.ProviderError
	if errors.As(err, &pErr) {
		switch pErr.Kind {
		case generation.KindInvalidCredential:
			return "Invalid API key"
		case generation.KindUnknownProvider:
			return "Unsupported provider"
		case generation.KindMalformedResponse:
			return "The provider returned a response that could not be used"
		case generation.KindTransportFailure:
			return "The provider could not be reached"
		default:
			if pErr.Message != "" {
				return pErr.Message
			}
		}
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return fmt.Sprintf("Invalid %s: %s", vErr.Field, vErr.Message)
	}

	switch {
	case errors.Is(err, generation.ErrQuotaExceeded):
		return "Quota exceeded"
	case errors.Is(err, generation.ErrRateLimited):
		return "Rate limit reached, retry later"
	case errors.Is(err, generation.ErrForbidden):
		return "Access to the provider was denied"
	case errors.Is(err, domain.ErrUnknownProvider):
		return "Unsupported provider"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, shared.ErrInvalidBody):
		return "Invalid request format"
	case isValidatorError(err):
		return SanitizeValidationError(err)
	default:
		return "An unexpected error occurred"
	}
}

// ErrorKind returns the machine-readable kind reported alongside an error.
func ErrorKind(err error) string {
	if kind, ok := generation.KindOf(err); ok {
		return string(kind)
	}
	if errors.Is(err, domain.ErrUnknownProvider) {
		return string(generation.KindUnknownProvider)
	}
	if errors.Is(err, domain.ErrValidation) || isValidatorError(err) ||
		errors.Is(err, shared.ErrEmptyBody) || errors.Is(err, shared.ErrInvalidBody) {
		return KindValidation
	}
	return ""
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field, without echoing submitted values.
func SanitizeValidationError(err error) string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		fe := vErrs[0]
		return fmt.Sprintf("Invalid %s: %s", jsonFieldName(fe), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

// HandleAPIError writes the status, message and kind derived from err.
// defaultMsg replaces the derived message when non-empty.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if defaultMsg != "" {
		message = defaultMsg
	}

	opts := []shared.ResponseOption{shared.WithKind(ErrorKind(err))}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

func isValidatorError(err error) bool {
	var vErrs validator.ValidationErrors
	return errors.As(err, &vErrs)
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "field"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte", "lte":
		return "out of range"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
