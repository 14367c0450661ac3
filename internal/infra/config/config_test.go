package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/planner?sslmode=disable")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("CRON_SPEC_REMINDER_SCAN", "")
	t.Setenv("REMINDER_LEAD_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.CronSpecReminders != "* * * * *" {
		t.Errorf("CronSpecReminders = %q, want every minute", cfg.CronSpecReminders)
	}
	if cfg.ReminderLeadMinutes != 15 {
		t.Errorf("ReminderLeadMinutes = %d, want 15", cfg.ReminderLeadMinutes)
	}
}

func TestLoadRequiredVars(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/planner")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when TELEGRAM_TOKEN missing")
	}

	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DATABASE_URL missing")
	}
}

func TestLoadReminderLead(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/planner")

	t.Setenv("REMINDER_LEAD_MINUTES", "30")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ReminderLeadMinutes != 30 {
		t.Fatalf("ReminderLeadMinutes = %d, want 30", cfg.ReminderLeadMinutes)
	}

	for _, bad := range []string{"zero", "0", "-5"} {
		t.Setenv("REMINDER_LEAD_MINUTES", bad)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for REMINDER_LEAD_MINUTES=%q", bad)
		}
	}
}
