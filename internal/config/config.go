// Package config loads Auto Linked configuration from a YAML file and
// environment variables. Environment variables win over the file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LLM provider names.
const (
	ProviderGoogleAI  = "googleai"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderBedrock   = "bedrock"
)

// defaultSystemInstruction is the fixed persona for the generative model.
const defaultSystemInstruction = "You are an AI specialized in creating posts optimized for LinkedIn. " +
	"Your mission is to generate engaging, professional and strategic content that encourages audience " +
	"engagement. Your posts should have an authentic, accessible tone, prompting interaction through " +
	"questions, calls to action and reflective hooks. Use a clear structure: an impactful opening, an " +
	"objective development, and a captivating close that invites participation. Include relevant hashtags " +
	"to broaden reach and adapt the style to the context, whether reflective, motivational, technical or " +
	"persuasive. Your focus is generating value, shares and meaningful connections for the user on LinkedIn."

// Config holds all configuration values.
type Config struct {
	// Chat/message API
	APIBaseURL string `yaml:"api_url"`
	UserID     string `yaml:"user_id"`

	// Generative model
	LLMProvider       string        `yaml:"llm_provider"`
	LLMModel          string        `yaml:"llm_model"`
	GeminiAPIKey      string        `yaml:"-"`
	OpenAIAPIKey      string        `yaml:"-"`
	AnthropicAPIKey   string        `yaml:"-"`
	OllamaHost        string        `yaml:"ollama_host"`
	SystemInstruction string        `yaml:"system_instruction"`
	MaxTurnDuration   time.Duration `yaml:"max_turn_duration"`

	// LinkedIn publishing
	PublishURL      string `yaml:"publish_url"`
	LinkedInAPIURL  string `yaml:"linkedin_api_url"`
	LinkedInVersion string `yaml:"linkedin_version"`

	// UI
	Theme string `yaml:"theme"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration from the config file (if present) and the
// environment. Missing values fall back to defaults.
func Load() Config {
	cfg := Config{
		APIBaseURL:        "http://localhost:3000",
		LLMProvider:       ProviderGoogleAI,
		LLMModel:          "gemini-2.0-flash",
		OllamaHost:        "http://localhost:11434",
		SystemInstruction: defaultSystemInstruction,
		LinkedInAPIURL:    "https://api.linkedin.com",
		LinkedInVersion:   "202502",
		Theme:             "dark",
		LogFile:           filepath.Join(os.TempDir(), "autolinked.log"),
	}

	if data, err := os.ReadFile(Path()); err == nil {
		// A broken config file should not take the tool down; defaults apply.
		_ = yaml.Unmarshal(data, &cfg)
	}

	cfg.APIBaseURL = getEnv("AUTOLINKED_API_URL", cfg.APIBaseURL)
	cfg.UserID = getEnv("AUTOLINKED_USER_ID", cfg.UserID)

	cfg.LLMProvider = getEnv("AUTOLINKED_LLM_PROVIDER", cfg.LLMProvider)
	cfg.LLMModel = getEnv("AUTOLINKED_LLM_MODEL", cfg.LLMModel)
	cfg.GeminiAPIKey = getEnv("GEMINI_API_KEY", "")
	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.AnthropicAPIKey = getEnv("ANTHROPIC_API_KEY", "")
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.SystemInstruction = getEnv("AUTOLINKED_SYSTEM_INSTRUCTION", cfg.SystemInstruction)
	if d, err := time.ParseDuration(os.Getenv("AUTOLINKED_MAX_TURN_DURATION")); err == nil {
		cfg.MaxTurnDuration = d
	}

	cfg.PublishURL = getEnv("AUTOLINKED_PUBLISH_URL", cfg.PublishURL)
	cfg.LinkedInAPIURL = getEnv("AUTOLINKED_LINKEDIN_API_URL", cfg.LinkedInAPIURL)
	cfg.LinkedInVersion = getEnv("AUTOLINKED_LINKEDIN_VERSION", cfg.LinkedInVersion)

	cfg.Theme = getEnv("AUTOLINKED_THEME", cfg.Theme)

	cfg.LogFile = getEnv("AUTOLINKED_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = parseLogLevel(getEnv("AUTOLINKED_LOG_LEVEL", "INFO"))

	return cfg
}

// Path returns the config file location.
// Override with AUTOLINKED_CONFIG for tests and alternate setups.
func Path() string {
	if p := os.Getenv("AUTOLINKED_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "autolinked.yaml")
	}
	return filepath.Join(home, ".config", "autolinked", "config.yaml")
}

// SaveTheme persists the theme preference key, the only local state the
// client keeps besides the remote resources.
func SaveTheme(theme string) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	// Preserve whatever else the file holds; only the theme key changes.
	values := map[string]any{}
	if data, err := os.ReadFile(path); err == nil {
		_ = yaml.Unmarshal(data, &values)
	}
	values["theme"] = theme

	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
