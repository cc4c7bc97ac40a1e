package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE_URL", "EMBEDDING_MODEL", "CHAT_MODEL",
		"EMBEDDING_PROVIDER", "MOVIEVEC_DB", "MOVIEVEC_COLLECTION",
		"REDIS_ADDR", "PORT", "TOP_K",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, "gpt-4o-mini", cfg.ChatModel)
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "movievec.db", cfg.DBPath)
	assert.Equal(t, "movies", cfg.Collection)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.TopK)
	assert.Empty(t, cfg.OpenAIAPIKey)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("EMBEDDING_PROVIDER", "local")
	t.Setenv("EMBEDDING_MODEL", "text-embedding-3-large")
	t.Setenv("MOVIEVEC_DB", "/tmp/catalog.db")
	t.Setenv("TOP_K", "12")
	t.Setenv("PORT", "9999")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, "local", cfg.Provider)
	assert.Equal(t, "text-embedding-3-large", cfg.EmbeddingModel)
	assert.Equal(t, "/tmp/catalog.db", cfg.DBPath)
	assert.Equal(t, 12, cfg.TopK)
	assert.Equal(t, "9999", cfg.Port)
}

func TestLoad_InvalidTopK(t *testing.T) {
	t.Setenv("EMBEDDING_PROVIDER", "")
	t.Setenv("TOP_K", "lots")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOP_K")
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("TOP_K", "")
	t.Setenv("EMBEDDING_PROVIDER", "huggingface")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "huggingface")
}
