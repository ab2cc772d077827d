package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/postline")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.PostCycleInterval != time.Minute {
		t.Errorf("expected 1m post cycle, got %s", cfg.PostCycleInterval)
	}
	if cfg.TokenCycleInterval != time.Hour {
		t.Errorf("expected 1h token cycle, got %s", cfg.TokenCycleInterval)
	}
	if cfg.TokenRefreshWindow != 24*time.Hour {
		t.Errorf("expected 24h refresh window, got %s", cfg.TokenRefreshWindow)
	}
	if cfg.TokenAlertWindow != 72*time.Hour {
		t.Errorf("expected 72h alert window, got %s", cfg.TokenAlertWindow)
	}
	if cfg.SchedulerBatchSize != 100 {
		t.Errorf("expected batch size 100, got %d", cfg.SchedulerBatchSize)
	}
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DB_URL")
	}
}

func TestLoad_ParsesOverrides(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/postline")
	t.Setenv("POST_CYCLE_INTERVAL", "30s")
	t.Setenv("TOKEN_REFRESH_WINDOW", "12h")
	t.Setenv("TOKEN_ALERT_WINDOW", "48h")
	t.Setenv("SCHEDULER_BATCH_SIZE", "25")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.PostCycleInterval != 30*time.Second {
		t.Errorf("expected 30s, got %s", cfg.PostCycleInterval)
	}
	if cfg.TokenRefreshWindow != 12*time.Hour {
		t.Errorf("expected 12h, got %s", cfg.TokenRefreshWindow)
	}
	if cfg.SchedulerBatchSize != 25 {
		t.Errorf("expected 25, got %d", cfg.SchedulerBatchSize)
	}
}

func TestLoad_RejectsInvertedWindows(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/postline")
	t.Setenv("TOKEN_REFRESH_WINDOW", "96h")
	t.Setenv("TOKEN_ALERT_WINDOW", "72h")

	if _, err := Load(); err == nil {
		t.Fatal("alert window shorter than refresh window should be rejected")
	}
}

func TestLoad_RejectsMalformedCron(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/postline")
	t.Setenv("POST_CYCLE_CRON", "not a cron")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed cron expression")
	}
}

func TestLoad_AcceptsCronCadence(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/postline")
	t.Setenv("TOKEN_CYCLE_CRON", "0 * * * *")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TokenCycleCron != "0 * * * *" {
		t.Errorf("cron expression not carried through, got %q", cfg.TokenCycleCron)
	}
}

func TestLoad_RejectsMalformedDuration(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/postline")
	t.Setenv("TOKEN_CYCLE_INTERVAL", "often")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed duration")
	}
}
