// Package response writes the JSON envelope shared by every API response.
// Huma operations get it through the API's transformer; plain chi handlers
// and middleware call the helpers here directly.
package response

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	domainerrors "github.com/listenupapp/swatches/internal/errors"
	"github.com/listenupapp/swatches/internal/logger"
)

// Version is the envelope format version sent as "v".
const Version = 1

// Envelope provides a consistent JSON response structure.
type Envelope struct {
	Data    any    `json:"data,omitempty"`
	Details any    `json:"details,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Version int    `json:"v"`
	Success bool   `json:"success"`
}

// Ok wraps data in a success envelope.
func Ok(data any) Envelope {
	return Envelope{Version: Version, Success: true, Data: data}
}

// Fail builds an error envelope. The message is repeated in "error" for
// clients that only read that field.
func Fail(code, message string, details any) Envelope {
	return Envelope{
		Version: Version,
		Error:   message,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// JSON writes env with the given status code.
func JSON(w http.ResponseWriter, status int, env Envelope, log *logger.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(env); err != nil && log != nil {
		log.Error("Failed to encode JSON response", "error", err)
	}
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, log *logger.Logger) {
	JSON(w, http.StatusOK, Ok(data), log)
}

// Error writes an error response for code.
func Error(w http.ResponseWriter, code domainerrors.Code, message string, log *logger.Logger) {
	JSON(w, code.HTTPStatus(), Fail(string(code), message, nil), log)
}

// Unauthorized writes a 401 Unauthorized response.
func Unauthorized(w http.ResponseWriter, message string, log *logger.Logger) {
	Error(w, domainerrors.CodeUnauthorized, message, log)
}

// Unavailable writes a 503 Service Unavailable response.
func Unavailable(w http.ResponseWriter, message string, log *logger.Logger) {
	Error(w, domainerrors.CodeUnavailable, message, log)
}

// TooManyRequests writes a 429 response with a Retry-After header when
// retryAfter is positive.
func TooManyRequests(w http.ResponseWriter, message string, retryAfter time.Duration, log *logger.Logger) {
	if retryAfter > 0 {
		secs := int((retryAfter + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}
	Error(w, domainerrors.CodeRateLimited, message, log)
}

// HandleError writes the response for err. Domain errors keep their code,
// message and details; anything else becomes a 500 with a generic message.
func HandleError(w http.ResponseWriter, err error, log *logger.Logger) {
	var domainErr *domainerrors.Error
	if domainerrors.As(err, &domainErr) {
		if domainErr.Code == domainerrors.CodeInternal && log != nil {
			log.Error("Internal error", "error", err)
		}
		JSON(w, domainErr.HTTPStatus(), Fail(string(domainErr.Code), domainErr.Message, domainErr.Details), log)
		return
	}

	if log != nil {
		log.Error("Unhandled error", "error", err)
	}
	Error(w, domainerrors.CodeInternal, "internal server error", log)
}
