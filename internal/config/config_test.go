package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SYSTEM_PROMPT", "be helpful")
	t.Setenv("PORT", "")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "")
	t.Setenv("OPENAI_API_BASE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.ServerPort)
	}
	if cfg.OpenAI.BaseURL != "https://api.openai.com/v1" {
		t.Fatalf("unexpected default base url: %q", cfg.OpenAI.BaseURL)
	}
	if cfg.Mongo.Database != "tutorchat" {
		t.Fatalf("unexpected default database: %q", cfg.Mongo.Database)
	}
	if cfg.Mongo.ConnectTimeout != 5*time.Second {
		t.Fatalf("unexpected default connect timeout: %v", cfg.Mongo.ConnectTimeout)
	}
	if cfg.SystemPrompt != "be helpful" {
		t.Fatalf("unexpected system prompt: %q", cfg.SystemPrompt)
	}
}

func TestLoadRequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	t.Setenv("SYSTEM_PROMPT", "be helpful")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "MONGO_URI") {
		t.Fatalf("expected missing MONGO_URI error, got %v", err)
	}
}

func TestLoadReadsPromptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("  file prompt \n"), 0o644); err != nil {
		t.Fatalf("failed to write prompt file: %v", err)
	}

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SYSTEM_PROMPT", "")
	t.Setenv("PROMPT_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SystemPrompt != "file prompt" {
		t.Fatalf("expected trimmed file prompt, got %q", cfg.SystemPrompt)
	}
}

func TestLoadPromptEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("file prompt"), 0o644); err != nil {
		t.Fatalf("failed to write prompt file: %v", err)
	}

	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SYSTEM_PROMPT", "env prompt")
	t.Setenv("PROMPT_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SystemPrompt != "env prompt" {
		t.Fatalf("expected env prompt to win, got %q", cfg.SystemPrompt)
	}
}

func TestLoadFailsWithoutPrompt(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("SYSTEM_PROMPT", "")
	t.Setenv("PROMPT_FILE", filepath.Join(t.TempDir(), "missing.txt"))

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "system prompt") {
		t.Fatalf("expected missing prompt error, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db.example:27017")
	t.Setenv("MONGO_DATABASE", "chat")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "2s")
	t.Setenv("SYSTEM_PROMPT", "be helpful")
	t.Setenv("PORT", "9000")
	t.Setenv("OPENAI_API_BASE", "https://proxy.example/v1/")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FINE_TUNED_MODEL", "ft:gpt-4o-mini:tutor")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ServerPort != "9000" {
		t.Fatalf("unexpected port: %q", cfg.ServerPort)
	}
	if cfg.OpenAI.BaseURL != "https://proxy.example/v1" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.OpenAI.BaseURL)
	}
	if cfg.OpenAI.Model != "ft:gpt-4o-mini:tutor" {
		t.Fatalf("unexpected model: %q", cfg.OpenAI.Model)
	}
	if cfg.Mongo.ConnectTimeout != 2*time.Second {
		t.Fatalf("unexpected connect timeout: %v", cfg.Mongo.ConnectTimeout)
	}
}
