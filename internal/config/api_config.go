package config

import "time"

// APIConfig holds settings for the WorkNest backend API.
type APIConfig struct {
	BaseURL string        `env:"WORKNEST_API_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"WORKNEST_API_TIMEOUT" envDefault:"30s"`
	// AppURL is the public application URL that hosts the checkout
	// session endpoint and the payment return pages.
	AppURL string `env:"WORKNEST_APP_URL" envDefault:"http://localhost:3000"`
}
