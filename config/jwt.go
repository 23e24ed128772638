package config

import (
	"os"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-this-in-production"

type JWTConfig struct {
	Secret     []byte
	Expiration time.Duration
}

func loadJWT() (JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = defaultJWTSecret
	}

	expiration, err := getEnvDuration("JWT_EXPIRATION", 24*time.Hour)
	if err != nil {
		return JWTConfig{}, err
	}

	return JWTConfig{
		Secret:     []byte(secret),
		Expiration: expiration,
	}, nil
}
