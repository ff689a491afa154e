package infra

import (
	"os"
	"path/filepath"
	"testing"
)

const validYAML = `
app:
  name: lob-simulator
  version: 0.1.0
book:
  levels: 1000
  depth: 5
sfgk:
  mu: 10.0
  lambda: 1.0
  theta: 0.2
  window: 20
  max_events: 10000
  replications: 4
cst:
  mu: 0.94
  lambdas: [1.85, 1.51, 1.09]
  thetas: [0.71, 0.81, 0.68]
  max_events: 10000
  replications: 4
estimators:
  mu: 0.94
  lambda: 1.85
  theta: 0.71
  trials: 100000
  queue_size: 5
  tolerance: "0.01"
simulation:
  seed: 42
  workers: 4
output:
  db_path: data/results.db
logging:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Book.Levels != 1000 {
		t.Errorf("Book.Levels = %d, want 1000", cfg.Book.Levels)
	}
	if cfg.SFGK.Window != 20 {
		t.Errorf("SFGK.Window = %d, want 20", cfg.SFGK.Window)
	}
	if len(cfg.CST.Lambdas) != 3 {
		t.Errorf("len(CST.Lambdas) = %d, want 3", len(cfg.CST.Lambdas))
	}
	if cfg.Simulation.Seed != 42 {
		t.Errorf("Simulation.Seed = %d, want 42", cfg.Simulation.Seed)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.ToleranceDecimal().String() != "0.01" {
		t.Errorf("tolerance = %s, want 0.01", cfg.ToleranceDecimal())
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LOB_SEED", "777")
	t.Setenv("LOB_DB_PATH", "elsewhere.db")

	cfg, err := LoadConfig(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Simulation.Seed != 777 {
		t.Errorf("Simulation.Seed = %d, want 777 from env", cfg.Simulation.Seed)
	}
	if cfg.Output.DBPath != "elsewhere.db" {
		t.Errorf("Output.DBPath = %q, want elsewhere.db from env", cfg.Output.DBPath)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig should fail for a missing file")
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero levels", func(c *Config) { c.Book.Levels = 0 }},
		{"window beyond levels", func(c *Config) { c.SFGK.Window = c.Book.Levels + 1 }},
		{"zero sfgk events", func(c *Config) { c.SFGK.MaxEvents = 0 }},
		{"mismatched cst vectors", func(c *Config) { c.CST.Thetas = c.CST.Thetas[:1] }},
		{"empty cst lambdas", func(c *Config) { c.CST.Lambdas = nil }},
		{"zero trials", func(c *Config) { c.Estimators.Trials = 0 }},
		{"bad tolerance", func(c *Config) { c.Estimators.Tolerance = "not-a-number" }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, validYAML))
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}
			c.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate should have failed")
			}
		})
	}
}
