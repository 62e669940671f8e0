package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the single failure type returned by Client. StatusCode is 0 when no
// response was received.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Code       string
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: status %d: %v", e.Method, e.Path, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newStatusError(method, path string, status int, body []byte) *Error {
	e := &Error{Method: method, Path: path, StatusCode: status, Body: body}
	e.Code, e.Message = parseErrorBody(body)
	if e.Message == "" {
		e.Message = strings.TrimSpace(http.StatusText(status))
	}
	return e
}

func parseErrorBody(body []byte) (code, message string) {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   json.RawMessage `json:"error"`
		Detail  json.RawMessage `json:"detail"`
		Code    json.RawMessage `json:"code"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", ""
	}
	code = rawText(payload.Code)
	for _, candidate := range []json.RawMessage{payload.Message, payload.Detail, payload.Error} {
		if msg := rawText(candidate); msg != "" {
			return code, msg
		}
	}
	return code, ""
}

// rawText renders a JSON scalar as text. Objects and arrays fall back to their
// compact JSON form, with a nested "message" preferred when present.
func rawText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
		return nested.Message
	}
	return strings.TrimSpace(string(raw))
}

func asError(err error) (*Error, bool) {
	var te *Error
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if te, ok := asError(err); ok {
		return te.StatusCode
	}
	return 0
}

func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsNetwork reports a failure where no HTTP response was received.
func IsNetwork(err error) bool {
	te, ok := asError(err)
	return ok && te.StatusCode == 0
}

// IsValidation reports a 4xx rejection other than an auth failure.
func IsValidation(err error) bool {
	s := StatusCode(err)
	return s >= 400 && s < 500 && s != http.StatusUnauthorized && s != http.StatusForbidden
}
