package config

import "time"

// GoogleOAuthConfig holds the Google sign-in settings.
type GoogleOAuthConfig struct {
	ClientID     string        `env:"GOOGLE_OAUTH_CLIENT_ID"`
	ClientSecret string        `env:"GOOGLE_OAUTH_CLIENT_SECRET"`
	Scopes       []string      `env:"GOOGLE_OAUTH_SCOPES" envSeparator:"," envDefault:"openid,profile,email"`
	IssuerURL    string        `env:"GOOGLE_OAUTH_ISSUER" envDefault:"https://accounts.google.com"`
	Timeout      time.Duration `env:"OAUTH_SIGNIN_TIMEOUT" envDefault:"5m"`
	CallbackAddr string        `env:"OAUTH_CALLBACK_ADDR" envDefault:"127.0.0.1:0"`
}

// GitHubOAuthConfig holds the GitHub sign-in settings.
type GitHubOAuthConfig struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:"," envDefault:"user:email"`
}
