package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LIBRARY_CONFIG", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "http://localhost:8000/api" {
		t.Fatalf("base url = %q", cfg.Server.BaseURL)
	}
	if cfg.Server.Timeout() != 10*time.Second {
		t.Fatalf("timeout = %v", cfg.Server.Timeout())
	}
	if cfg.Loan.PeriodDays != 14 {
		t.Fatalf("loan period = %d", cfg.Loan.PeriodDays)
	}
	if cfg.UI.DateFormat == "" {
		t.Fatalf("date format empty")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LIBRARY_CONFIG", "")
	t.Setenv("LIBRARY_SERVER_BASE_URL", "http://example.com/api")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.BaseURL != "http://example.com/api" {
		t.Fatalf("base url = %q, want env override", cfg.Server.BaseURL)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("LIBRARY_CONFIG", path)

	in := Config{
		Server: ServerConfig{BaseURL: "http://books.local/api", TimeoutSeconds: 30},
		Loan:   LoanConfig{PeriodDays: 21},
		UI:     UIConfig{DateFormat: "2006-01-02"},
	}
	if err := Save(in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Server.BaseURL != in.Server.BaseURL {
		t.Fatalf("base url = %q", out.Server.BaseURL)
	}
	if out.Server.Timeout() != 30*time.Second {
		t.Fatalf("timeout = %v", out.Server.Timeout())
	}
	if out.Loan.PeriodDays != 21 {
		t.Fatalf("loan period = %d", out.Loan.PeriodDays)
	}
	if out.UI.DateFormat != "2006-01-02" {
		t.Fatalf("date format = %q", out.UI.DateFormat)
	}
}
