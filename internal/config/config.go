// Package config loads the application configuration from the environment.
//
// All configuration is read ONCE at startup in main and passed down as a
// struct — nothing else in the codebase reads os.Getenv. This keeps the
// dependency graph explicit: a component that needs a setting receives it
// through its constructor, never through hidden global state.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting the server needs.
type Config struct {
	Port   string
	AppEnv string
	DBPath string

	JWTSecret string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string

	JobSearchBaseURL string
	JobSearchAPIKey  string
	JobSearchAPIHost string
	CountriesBaseURL string

	OpenAIAPIKey string
	OpenAIModel  string
}

// Load reads .env (if present) and the process environment.
// Missing keys fall back to development defaults; secrets default to empty,
// which disables the feature that needs them (auth, AI, jobs).
func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:   getEnv("PORT", "8080"),
		AppEnv: getEnv("APP_ENV", "local"),
		DBPath: getEnv("DB_PATH", "data/devforum.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		GitHubClientID:     getEnv("GITHUB_CLIENT_ID", ""),
		GitHubClientSecret: getEnv("GITHUB_CLIENT_SECRET", ""),
		GitHubCallbackURL:  getEnv("GITHUB_CALLBACK_URL", "http://localhost:8080/auth/github/callback"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleCallbackURL:  getEnv("GOOGLE_CALLBACK_URL", "http://localhost:8080/auth/google/callback"),

		JobSearchBaseURL: getEnv("JSEARCH_BASE_URL", "https://jsearch.p.rapidapi.com"),
		JobSearchAPIKey:  getEnv("RAPID_API_KEY", ""),
		JobSearchAPIHost: getEnv("RAPID_API_HOST", "jsearch.p.rapidapi.com"),
		CountriesBaseURL: getEnv("COUNTRIES_BASE_URL", "https://restcountries.com/v3.1"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4o-mini"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
