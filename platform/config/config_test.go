package config

import (
	"strings"
	"testing"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/brokerage")
	t.Setenv("JWT_ACCESS_SECRET", "secret")
	t.Setenv("SMTP_HOST", "")
	t.Setenv("CORS_ALLOW_ALL", "false")
	t.Setenv("CORS_ALLOW_CREDENTIALS", "true")
	t.Setenv("CORS_ORIGINS", "http://localhost:4200")
	t.Setenv("ANALYTICS_REPORT_TIMEZONE", "UTC")
	t.Setenv("ANALYTICS_APPROACHING_DEADLINE_DAYS", "7")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetApproachingDeadlineDays() != 7 {
		t.Fatalf("expected 7 deadline days, got %d", cfg.GetApproachingDeadlineDays())
	}
	if cfg.GetReportLocation().String() != "UTC" {
		t.Fatalf("unexpected location %s", cfg.GetReportLocation())
	}
	if cfg.IsEmailEnabled() {
		t.Fatal("email must stay disabled without SMTP_HOST")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}

func TestLoadRejectsWildcardWithCredentials(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", "*")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "CORS_ALLOW_CREDENTIALS") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestLoadRequiresOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("CORS_ORIGINS", " , ")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "CORS_ORIGINS") {
		t.Fatalf("expected origins error, got %v", err)
	}
}

func TestLoadReportTimezone(t *testing.T) {
	setRequired(t)
	t.Setenv("ANALYTICS_REPORT_TIMEZONE", "Europe/Amsterdam")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GetReportLocation().String() != "Europe/Amsterdam" {
		t.Fatalf("unexpected location %s", cfg.GetReportLocation())
	}

	t.Setenv("ANALYTICS_REPORT_TIMEZONE", "Mars/Olympus")
	if _, err := Load(); err == nil {
		t.Fatal("expected invalid timezone error")
	}
}

func TestLoadRejectsNegativeDeadlineWindow(t *testing.T) {
	setRequired(t)
	t.Setenv("ANALYTICS_APPROACHING_DEADLINE_DAYS", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative window")
	}
}

func TestEmailRequiresFromAddress(t *testing.T) {
	setRequired(t)
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_ENABLED", "true")
	t.Setenv("EMAIL_FROM_ADDRESS", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "EMAIL_FROM_ADDRESS") {
		t.Fatalf("expected from-address error, got %v", err)
	}
}
