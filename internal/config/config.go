package config

import (
	"fmt"
	"os"

	"github.com/chepyr/go-task-manager/internal/i18n"
	"github.com/joho/godotenv"
)

// Config is built once at startup and handed to the application
// explicitly; nothing reads the environment after Load returns.
type Config struct {
	DatabaseDSN string
	ServerPort  string
	JWTSecret   string
	Lang        i18n.Lang
}

func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	required := []string{
		"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"POSTGRES_HOST", "POSTGRES_PORT", "SERVER_PORT",
	}
	for _, env := range required {
		if os.Getenv(env) == "" {
			return nil, fmt.Errorf("environment variable %s must be set", env)
		}
	}
	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("POSTGRES_HOST"), os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"), os.Getenv("POSTGRES_DB"),
		os.Getenv("POSTGRES_PORT"))

	lang := i18n.Lang(os.Getenv("APP_LANG"))
	if lang == "" {
		lang = i18n.En
	}

	return &Config{
		DatabaseDSN: dsn,
		ServerPort:  os.Getenv("SERVER_PORT"),
		JWTSecret:   secret,
		Lang:        lang,
	}, nil
}
