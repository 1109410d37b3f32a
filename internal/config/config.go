package config

import (
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

var dotenvOnce sync.Once

// Load populates a configuration struct from environment variables.
// A .env file in the working directory is loaded once per process if present.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// The .env file is optional
		_ = godotenv.Load()
	})
	if cfg == nil {
		return errors.New("[config.Load] nil config pointer")
	}
	if err := env.Parse(cfg); err != nil {
		return errors.Wrap(err, "[config.Load] parsing environment")
	}
	return nil
}
