package permsource

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// LoadEnvConfig parses environment variables into a source config struct
// based on its env tags, loading the default .env file once beforehand.
//
// Example:
//
//	var cfg permsource.RedisConfig
//	if err := permsource.LoadEnvConfig(&cfg); err != nil {
//	    // handle error
//	}
func LoadEnvConfig[T any](cfg *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrInvalidEnvConfig, err)
	}
	return nil
}
