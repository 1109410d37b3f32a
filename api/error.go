package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Error is the normalized form of a non-2xx backend response.
//
// Message carries a single human-readable summary picked from the raw
// Django REST Framework error body; Body keeps the decoded body so that
// callers can surface field-level validation errors verbatim.
type Error struct {
	Message string
	Body    map[string]any
	Status  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// FieldErrors returns the validation messages for a named field, or nil.
func (e *Error) FieldErrors(field string) []string {
	if e.Body == nil {
		return nil
	}
	return stringSlice(e.Body[field])
}

// fieldMessagePrefixes lists the known DRF validation fields in priority
// order together with the prefix shown to the user. An empty prefix means
// the message is surfaced as-is.
var fieldMessagePrefixes = []struct {
	field  string
	prefix string
}{
	{"email", ""},
	{"password", ""},
	{"confirm_password", ""},
	{"name", "Name: "},
	{"about", "About: "},
	{"resume", "Resume: "},
	{"location", "Location: "},
	{"website", "Website: "},
	{"x_account", "X Account: "},
	{"logo", "Logo: "},
}

// newError normalizes an error response body into an *Error.
//
// The message is derived by priority: known field-specific error arrays,
// then non_field_errors, then detail, then a raw string body, then a
// generic message field, then the first key of an arbitrary validation
// map, and finally the JSON-encoded body.
func newError(statusText string, raw []byte, httpStatus int) *Error {
	var body any
	if len(raw) == 0 || json.Unmarshal(raw, &body) != nil {
		return &Error{Message: statusText, Status: httpStatus}
	}

	switch v := body.(type) {
	case string:
		return &Error{Message: v, Status: httpStatus}
	case map[string]any:
		return &Error{Message: messageFromBody(v, raw), Body: v, Status: httpStatus}
	default:
		return &Error{Message: string(raw), Status: httpStatus}
	}
}

func messageFromBody(body map[string]any, raw []byte) string {
	for _, f := range fieldMessagePrefixes {
		if msgs := stringSlice(body[f.field]); len(msgs) > 0 {
			return f.prefix + msgs[0]
		}
	}
	if msgs := stringSlice(body["non_field_errors"]); len(msgs) > 0 {
		return msgs[0]
	}
	if detail, ok := body["detail"].(string); ok && detail != "" {
		return detail
	}
	if msg, ok := body["message"].(string); ok && msg != "" {
		return msg
	}
	// Arbitrary validation map: take the first field carrying messages,
	// in sorted key order so the result is stable.
	keys := make([]string, 0, len(body))
	for key := range body {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if msgs := stringSlice(body[key]); len(msgs) > 0 {
			return fmt.Sprintf("%s: %s", key, msgs[0])
		}
	}
	return string(raw)
}

func stringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// StatusOf returns the HTTP status carried by err, or 0 when err is not
// an API error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsAuthError reports whether err is a 401 or 403 API error.
func IsAuthError(err error) bool {
	status := StatusOf(err)
	return status == 401 || status == 403
}
