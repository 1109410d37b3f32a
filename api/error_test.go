package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		message string
	}{
		{
			name:    "field error takes priority",
			raw:     `{"email":["Enter a valid email address."],"detail":"ignored"}`,
			message: "Enter a valid email address.",
		},
		{
			name:    "prefixed field error",
			raw:     `{"name":["This field may not be blank."]}`,
			message: "Name: This field may not be blank.",
		},
		{
			name:    "earlier field wins over later field",
			raw:     `{"password":["Too short."],"location":["Required."]}`,
			message: "Too short.",
		},
		{
			name:    "non_field_errors",
			raw:     `{"non_field_errors":["Unable to log in with provided credentials."]}`,
			message: "Unable to log in with provided credentials.",
		},
		{
			name:    "detail",
			raw:     `{"detail":"Authentication credentials were not provided."}`,
			message: "Authentication credentials were not provided.",
		},
		{
			name:    "raw string body",
			raw:     `"something went wrong"`,
			message: "something went wrong",
		},
		{
			name:    "message field",
			raw:     `{"message":"Server overloaded"}`,
			message: "Server overloaded",
		},
		{
			name:    "unknown validation map uses first sorted key",
			raw:     `{"zeta":["last"],"alpha":["first"]}`,
			message: "alpha: first",
		},
		{
			name:    "opaque object falls back to raw JSON",
			raw:     `{"weird":42}`,
			message: `{"weird":42}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := newError("400 Bad Request", []byte(tc.raw), 400)
			require.Equal(t, tc.message, apiErr.Message)
			require.Equal(t, 400, apiErr.Status)
		})
	}
}

func TestNewErrorUnparseableBody(t *testing.T) {
	apiErr := newError("502 Bad Gateway", []byte("<html>upstream down</html>"), 502)
	require.Equal(t, "502 Bad Gateway", apiErr.Message)
	require.Equal(t, 502, apiErr.Status)
	require.Nil(t, apiErr.Body)
}

func TestFieldErrors(t *testing.T) {
	apiErr := newError("400 Bad Request", []byte(`{"email":["Taken.","Invalid."]}`), 400)
	require.Equal(t, []string{"Taken.", "Invalid."}, apiErr.FieldErrors("email"))
	require.Nil(t, apiErr.FieldErrors("password"))
}

func TestStatusHelpers(t *testing.T) {
	require.Equal(t, 401, StatusOf(&Error{Message: "nope", Status: 401}))
	require.Equal(t, 0, StatusOf(nil))

	require.True(t, IsAuthError(&Error{Status: 401}))
	require.True(t, IsAuthError(&Error{Status: 403}))
	require.False(t, IsAuthError(&Error{Status: 500}))
	require.False(t, IsAuthError(nil))
}
