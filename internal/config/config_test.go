package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"garbage", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLogLevel(tt.in); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte("api_url: http://file:3000\nuser_id: file-user\ntheme: light\n"), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("AUTOLINKED_CONFIG", path)
	t.Setenv("AUTOLINKED_API_URL", "http://env:3000")
	t.Setenv("AUTOLINKED_USER_ID", "")

	cfg := Load()
	if cfg.APIBaseURL != "http://env:3000" {
		t.Errorf("APIBaseURL = %q, want env value", cfg.APIBaseURL)
	}
	if cfg.UserID != "file-user" {
		t.Errorf("UserID = %q, want file value", cfg.UserID)
	}
	if cfg.Theme != "light" {
		t.Errorf("Theme = %q, want %q", cfg.Theme, "light")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTOLINKED_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg := Load()
	if cfg.LLMProvider != ProviderGoogleAI {
		t.Errorf("LLMProvider = %q, want %q", cfg.LLMProvider, ProviderGoogleAI)
	}
	if cfg.LLMModel != "gemini-2.0-flash" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.LinkedInVersion != "202502" {
		t.Errorf("LinkedInVersion = %q", cfg.LinkedInVersion)
	}
}

func TestSaveThemeRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("AUTOLINKED_CONFIG", path)

	if err := SaveTheme("light"); err != nil {
		t.Fatalf("SaveTheme: %v", err)
	}

	cfg := Load()
	if cfg.Theme != "light" {
		t.Errorf("Theme after save = %q, want %q", cfg.Theme, "light")
	}
}
