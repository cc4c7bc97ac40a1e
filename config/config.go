// Package config loads runtime settings from the environment, with optional
// .env file support.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config captures every runtime setting of the pipeline.
type Config struct {
	// OpenAIAPIKey authenticates embedding and chat calls.
	OpenAIAPIKey string
	// OpenAIBaseURL points at an OpenAI-compatible server; empty selects the
	// official API.
	OpenAIBaseURL string
	// EmbeddingModel is the embedding model name.
	EmbeddingModel string
	// ChatModel is the completion model name.
	ChatModel string
	// Provider selects the embedder: "openai" or "local".
	Provider string

	// DBPath is the SQLite database file.
	DBPath string
	// Collection is the chromem collection name when the chromem store is
	// selected.
	Collection string

	// RedisAddr enables the shared answer cache when non-empty.
	RedisAddr string

	// Port is the HTTP server port.
	Port string
	// TopK is the default number of retrieved contexts.
	TopK int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		EmbeddingModel: getenv("EMBEDDING_MODEL", "text-embedding-3-small"),
		ChatModel:      getenv("CHAT_MODEL", "gpt-4o-mini"),
		Provider:       getenv("EMBEDDING_PROVIDER", "openai"),
		DBPath:         getenv("MOVIEVEC_DB", "movievec.db"),
		Collection:     getenv("MOVIEVEC_COLLECTION", "movies"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		Port:           getenv("PORT", "8080"),
	}

	topK, err := getint("TOP_K", 5)
	if err != nil {
		return nil, err
	}
	cfg.TopK = topK

	switch cfg.Provider {
	case "openai", "local":
	default:
		return nil, errors.Errorf("config: unknown embedding provider %q", cfg.Provider)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(err, "config: %s must be an integer", key)
	}
	return n, nil
}
