// Package error defines the API's error vocabulary and JSON encoding.
package error

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	ErrorID string    `json:"error_id"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// EncodeError writes an error response with the status mapped from code.
func EncodeError(w http.ResponseWriter, code ErrorCode, message, requestID string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code.StatusCode())
	return json.NewEncoder(w).Encode(Error{
		Code:    code,
		Message: message,
		ErrorID: requestID,
	})
}

// EncodeInternalError writes a generic 500 response.
func EncodeInternalError(w http.ResponseWriter, requestID string) error {
	return EncodeError(w, InternalServerError, "internal server error", requestID)
}
