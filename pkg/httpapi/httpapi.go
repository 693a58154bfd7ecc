// Package httpapi holds the JSON plumbing shared by every API controller.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/laurel-hq/laurel/pkg/composables"
)

const DefaultRequestIDHeader = "X-Request-ID"

// ErrorEnvelope standardizes JSON error responses for API namespaces.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// StatusError is implemented by service errors that know their HTTP status.
type StatusError interface {
	error
	HTTPStatus() int
	ErrorCode() string
	PublicMessage() string
}

// Result is the success body of every API response.
type Result[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// OK writes data wrapped in a 200 Result.
func OK[T any](w http.ResponseWriter, data T) {
	WriteJSON(w, http.StatusOK, Result[T]{Code: http.StatusOK, Message: "success", Data: data})
}

func WriteJSON[T any](w http.ResponseWriter, status int, payload T) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func WriteError(w http.ResponseWriter, status int, requestID, code, message string) {
	meta := map[string]string{}
	if requestID != "" {
		meta["request_id"] = requestID
	}
	WriteJSON(w, status, ErrorEnvelope{
		Code:    code,
		Message: message,
		Meta:    meta,
	})
}

// WriteServiceError renders err with its own status when it carries one; anything
// else is an internal error whose details stay in the log.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := EnsureRequestID(r)
	var svcErr StatusError
	if errors.As(err, &svcErr) {
		WriteError(w, svcErr.HTTPStatus(), requestID, svcErr.ErrorCode(), svcErr.PublicMessage())
		return
	}
	composables.UseLogger(r.Context()).WithError(err).Error("request failed")
	WriteError(w, http.StatusInternalServerError, requestID, "INTERNAL", "internal error")
}

// DecodeJSON decodes a request body strictly: unknown fields are rejected.
func DecodeJSON(body io.ReadCloser, out any) error {
	defer func() { _ = body.Close() }()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// EnsureRequestID prefers the id assigned by the request middleware, then the
// incoming header, and finally mints a uuid.
func EnsureRequestID(r *http.Request) string {
	if id := composables.UseRequestID(r.Context()); id != "" {
		return id
	}
	v := strings.TrimSpace(r.Header.Get(DefaultRequestIDHeader))
	if v != "" {
		return v
	}
	v = uuid.NewString()
	r.Header.Set(DefaultRequestIDHeader, v)
	return v
}
