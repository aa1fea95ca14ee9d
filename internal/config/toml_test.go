package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing config should not fail: %v", err)
	}
	if cfg.Quiz.Topic != nil || len(cfg.Tiers) != 0 {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfigDecodes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[quiz]
dataset = ["a.csv", "b.csv"]
topic = "animals"
xp-tier-multiplier = true

[stamina]
max = 5

[[tiers]]
target = 3
streak = 2

[[tiers]]
target = 4
streak = 0

[store]
driver = "postgres"
dsn = "postgres://localhost/quiz"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if len(cfg.Quiz.Dataset) != 2 || cfg.Quiz.Dataset[1] != "b.csv" {
		t.Fatalf("unexpected dataset list: %v", cfg.Quiz.Dataset)
	}
	if cfg.Quiz.Topic == nil || *cfg.Quiz.Topic != "animals" {
		t.Fatalf("unexpected topic: %v", cfg.Quiz.Topic)
	}
	if cfg.Quiz.XPTierMultiplier == nil || !*cfg.Quiz.XPTierMultiplier {
		t.Fatalf("expected xp-tier-multiplier true")
	}
	if cfg.Stamina.Max == nil || *cfg.Stamina.Max != 5 {
		t.Fatalf("unexpected stamina max: %v", cfg.Stamina.Max)
	}
	if len(cfg.Tiers) != 2 || cfg.Tiers[0].Target != 3 || cfg.Tiers[1].Streak != 0 {
		t.Fatalf("unexpected tiers: %+v", cfg.Tiers)
	}
	if cfg.Store.Driver == nil || *cfg.Store.Driver != "postgres" {
		t.Fatalf("unexpected driver: %v", cfg.Store.Driver)
	}
}

func TestLoadConfigRejectsBadTier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[[tiers]]\ntarget = 0\nstreak = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "tiers[0].target") {
		t.Fatalf("expected tier validation error, got %v", err)
	}
}

func TestLoadConfigRejectsNegativeXP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[quiz]\nxp-per-correct = -10\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "xp-per-correct") {
		t.Fatalf("expected xp validation error, got %v", err)
	}

	if err := os.WriteFile(path, []byte("[quiz]\nxp-per-correct = 0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("expected zero xp to be accepted, got %v", err)
	}
}

func TestDatasetCandidatesOrder(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	got := DatasetCandidates([]string{"idioms.csv", "/abs/x.csv"})
	want := []string{"idioms.csv", "/abs/x.csv", filepath.Join("/data", "idiomquiz", "idioms.csv")}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}
