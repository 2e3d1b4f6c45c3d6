package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// ErrorResponse is the JSON body of every failed request
type ErrorResponse struct {
	Error       string     `json:"error"`             // machine-readable kind
	Message     string     `json:"message"`           // client-safe message
	Details     string     `json:"details,omitempty"` // validation failures
	LockedUntil *time.Time `json:"lockedUntil,omitempty"`
}

var errorCodes = map[int]string{
	http.StatusBadRequest:          "bad_request",
	http.StatusUnauthorized:        "unauthorized",
	http.StatusForbidden:           "forbidden",
	http.StatusNotFound:            "not_found",
	http.StatusConflict:            "conflict",
	http.StatusTooManyRequests:     "rate_limit_exceeded",
	http.StatusInternalServerError: "internal_error",
}

// WriteJSON writes v as a JSON body with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: errorCode, Message: message})
}

// WriteStatus writes an error whose code is derived from the status
func WriteStatus(w http.ResponseWriter, statusCode int, message string) {
	code, ok := errorCodes[statusCode]
	if !ok {
		code = "error"
	}
	WriteError(w, statusCode, code, message)
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteStatus(w, http.StatusBadRequest, message)
}

// WriteValidationError reports rejected request fields
func WriteValidationError(w http.ResponseWriter, details string) {
	WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: "Request validation failed",
		Details: details,
	})
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteStatus(w, http.StatusUnauthorized, message)
}

// WriteAccountLocked is a 401 that also tells the client when to retry
func WriteAccountLocked(w http.ResponseWriter, message string, until time.Time) {
	until = until.UTC()
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
		Error:       "account_locked",
		Message:     message,
		LockedUntil: &until,
	})
}

func WriteForbidden(w http.ResponseWriter, message string) {
	WriteStatus(w, http.StatusForbidden, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteStatus(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteStatus(w, http.StatusConflict, message)
}

func WriteTooManyRequests(w http.ResponseWriter, message string) {
	WriteStatus(w, http.StatusTooManyRequests, message)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteStatus(w, http.StatusInternalServerError, message)
}
