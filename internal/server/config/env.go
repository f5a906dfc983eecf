package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// parseEnv overlays environment variables onto cfg. A .env file in the
// working directory is loaded first if present; real environment variables
// win over it. Variables that are unset leave the current value untouched.
func parseEnv(cfg *Config) error {
	_ = godotenv.Load()

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}
