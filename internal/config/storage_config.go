package config

// StorageConfig selects where the client persists its session.
//
// When RedisURL is set the session is kept in Redis so that several
// processes can share one sign-in, otherwise a JSON file under the user
// config dir is used. An empty Path falls back to the default location.
type StorageConfig struct {
	Path     string `env:"WORKNEST_SESSION_FILE"`
	RedisURL string `env:"WORKNEST_SESSION_REDIS_URL"`
}
