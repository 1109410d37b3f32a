package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/worknest/worknest-go/internal/config"
)

func TestLoadAPIConfigDefaults(t *testing.T) {
	var cfg config.APIConfig
	require.NoError(t, config.Load(&cfg))
	require.Equal(t, "http://localhost:8000", cfg.BaseURL)
	require.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadAPIConfigFromEnv(t *testing.T) {
	t.Setenv("WORKNEST_API_URL", "https://api.worknest.example.com")
	t.Setenv("WORKNEST_API_TIMEOUT", "5s")

	var cfg config.APIConfig
	require.NoError(t, config.Load(&cfg))
	require.Equal(t, "https://api.worknest.example.com", cfg.BaseURL)
	require.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadGoogleOAuthConfig(t *testing.T) {
	t.Setenv("GOOGLE_OAUTH_CLIENT_ID", "client-1")
	t.Setenv("GOOGLE_OAUTH_SCOPES", "openid,email")

	var cfg config.GoogleOAuthConfig
	require.NoError(t, config.Load(&cfg))
	require.Equal(t, "client-1", cfg.ClientID)
	require.Equal(t, []string{"openid", "email"}, cfg.Scopes)
	require.Equal(t, "https://accounts.google.com", cfg.IssuerURL)
	require.Equal(t, 5*time.Minute, cfg.Timeout)
}

func TestLoadNilPointer(t *testing.T) {
	require.Error(t, config.Load[config.APIConfig](nil))
}
