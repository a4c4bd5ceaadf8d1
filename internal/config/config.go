package config

import (
	"kwallo/pkg/config"
	"kwallo/pkg/llm"
)

// Config stores environment configuration for kwallo.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   []byte
	LLM         llm.Config
}

// LoadConfig loads the kwallo configuration from environment variables.
func LoadConfig() Config {
	return Config{
		Port:        config.GetEnv("PORT", "18040"),
		DatabaseURL: config.RequireEnv("DATABASE_URL"),
		JWTSecret:   []byte(config.RequireEnv("JWT_SECRET")),
		LLM:         llm.LoadConfig(),
	}
}
