package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	ServerPort   string
	SystemPrompt string
	Mongo        MongoConfig
	OpenAI       OpenAIConfig
	Logging      LoggingConfig
}

type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

type OpenAIConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

type LoggingConfig struct {
	Level        string
	Encoding     string
	Development  bool
	EnableCaller bool
	ServiceName  string
}

// Load reads configuration from the environment. The Mongo URI and the
// system prompt are required; the model identifier is not checked here
// and will only surface as an upstream failure on the first chat call.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: envOrDefault("PORT", "8080"),
		Mongo: MongoConfig{
			URI:            strings.TrimSpace(os.Getenv("MONGO_URI")),
			Database:       envOrDefault("MONGO_DATABASE", "tutorchat"),
			ConnectTimeout: parseDuration(envOrDefault("MONGO_CONNECT_TIMEOUT", "5s"), 5*time.Second),
		},
		OpenAI: OpenAIConfig{
			BaseURL: strings.TrimRight(envOrDefault("OPENAI_API_BASE", "https://api.openai.com/v1"), "/"),
			APIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			Model:   strings.TrimSpace(os.Getenv("FINE_TUNED_MODEL")),
		},
		Logging: LoggingConfig{
			Level:        strings.ToLower(envOrDefault("LOG_LEVEL", "info")),
			Encoding:     strings.ToLower(envOrDefault("LOG_ENCODING", "console")),
			Development:  parseBool(envOrDefault("LOG_DEVELOPMENT", "false"), false),
			EnableCaller: parseBool(envOrDefault("LOG_CALLER", "false"), false),
			ServiceName:  envOrDefault("SERVICE_NAME", "tutorchat-server"),
		},
	}

	prompt, err := loadSystemPrompt()
	if err != nil {
		return nil, err
	}
	cfg.SystemPrompt = prompt

	if cfg.Mongo.URI == "" {
		return nil, fmt.Errorf("missing required environment variable: MONGO_URI")
	}

	return cfg, nil
}

// loadSystemPrompt prefers the SYSTEM_PROMPT variable and falls back to
// reading the file named by PROMPT_FILE.
func loadSystemPrompt() (string, error) {
	if prompt := strings.TrimSpace(os.Getenv("SYSTEM_PROMPT")); prompt != "" {
		return prompt, nil
	}

	path := envOrDefault("PROMPT_FILE", "prompt.txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("system prompt is required: set SYSTEM_PROMPT or provide %s: %w", path, err)
	}

	prompt := strings.TrimSpace(string(data))
	if prompt == "" {
		return "", fmt.Errorf("system prompt file %s is empty", path)
	}

	return prompt, nil
}

func envOrDefault(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func parseBool(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}
