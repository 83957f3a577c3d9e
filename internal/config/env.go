package config

import (
	"os"

	"github.com/joho/godotenv"
)

var (
	RedisPassword         = ""
	AuthToken             = ""
	NoAuthBypass          = false
	GoogleEmbeddingAPIKey = ""
	OpenAIAPIKey          = ""
	SupabaseURL           = ""
	SupabaseServiceKey    = ""
)

// LoadEnv pulls secrets from a local .env when present and then from the
// process environment. Constants above stay compile-time, only credentials
// and endpoints come from the environment.
func LoadEnv() {
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	RedisPassword = getEnv("REDIS_PASSWORD", "")
	AuthToken = getEnv("API_AUTH_TOKEN", "")
	NoAuthBypass = getEnv("NO_AUTH_BYPASS", "") == "true"
	GoogleEmbeddingAPIKey = getEnv("GOOGLE_API_KEY", "")
	OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	SupabaseURL = getEnv("SUPABASE_URL", "")
	SupabaseServiceKey = getEnv("SUPABASE_SERVICE_KEY", "")
}

func getEnv(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
