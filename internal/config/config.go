package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every setting the service reads.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Store  StoreConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Store: loadStoreConfig()}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" verbatim.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the remote chat-completion collaborator. APIKey is only
// the bootstrap credential; a key stored through the settings endpoint takes
// precedence at call time.
type AIConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   time.Duration
}

// StoreConfig selects the persistence substrate. An empty RedisAddr keeps
// everything in process memory.
type StoreConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// NewChatModel builds a chat model bound to the supplied credential.
func (c AIConfig) NewChatModel(ctx context.Context, apiKey string) (model.ChatModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("remote credential missing")
	}

	maxTokens := c.MaxTokens

	return openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL:   c.BaseURL,
		APIKey:    apiKey,
		Model:     c.Model,
		MaxTokens: &maxTokens,
		Timeout:   c.Timeout,
	})
}

func loadAIConfig() (AIConfig, error) {
	maxTokens := 300
	if override, err := parseOptionalIntEnv("AI_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	timeoutSeconds := 20
	if override, err := parseOptionalIntEnv("AI_TIMEOUT_SECONDS"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return AIConfig{
		APIKey:    strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		Model:     getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		BaseURL:   getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		MaxTokens: maxTokens,
		Timeout:   time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func loadStoreConfig() StoreConfig {
	db := 0
	if override, err := parseOptionalIntEnv("REDIS_DB"); err == nil && override != nil {
		db = *override
	}

	return StoreConfig{
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       db,
		KeyPrefix:     getEnvOrDefault("STORE_KEY_PREFIX", "echoself"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
