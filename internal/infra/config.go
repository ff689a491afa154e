package infra

import (
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config holds every knob of a simulation session. Values load from
// YAML and may be overridden through environment variables.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	Book struct {
		Levels int `yaml:"levels"`
		Depth  int `yaml:"depth"`
	} `yaml:"book"`

	SFGK struct {
		Mu           float64 `yaml:"mu"`
		Lambda       float64 `yaml:"lambda"`
		Theta        float64 `yaml:"theta"`
		Window       int     `yaml:"window"`
		MaxEvents    int     `yaml:"max_events"`
		Replications int     `yaml:"replications"`
	} `yaml:"sfgk"`

	CST struct {
		Mu           float64   `yaml:"mu"`
		Lambdas      []float64 `yaml:"lambdas"`
		Thetas       []float64 `yaml:"thetas"`
		MaxEvents    int       `yaml:"max_events"`
		Replications int       `yaml:"replications"`
	} `yaml:"cst"`

	Estimators struct {
		Mu     float64 `yaml:"mu"`
		Lambda float64 `yaml:"lambda"`
		Theta  float64 `yaml:"theta"`
		Trials int     `yaml:"trials"`
		// QueueSize seeds the xb/xs queue quantities for each trial chain.
		QueueSize int `yaml:"queue_size"`
		// Tolerance flags estimates that drift from their symmetric
		// expectation. Parsed as a decimal; see ToleranceDecimal.
		Tolerance string `yaml:"tolerance"`
	} `yaml:"estimators"`

	Simulation struct {
		Seed    int64 `yaml:"seed"`
		Workers int   `yaml:"workers"`
	} `yaml:"simulation"`

	Output struct {
		DBPath     string `yaml:"db_path"`
		ChartPath  string `yaml:"chart_path"`
		StreamAddr string `yaml:"stream_addr"`
	} `yaml:"output"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// LoadConfig reads and parses the configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.Book.Levels <= 0 {
		return fmt.Errorf("book levels must be positive, got %d", c.Book.Levels)
	}
	if c.Book.Depth < 0 {
		return fmt.Errorf("book depth must be non-negative, got %d", c.Book.Depth)
	}

	if c.SFGK.Window <= 0 || c.SFGK.Window > c.Book.Levels {
		return fmt.Errorf("sfgk window %d outside (0, %d]", c.SFGK.Window, c.Book.Levels)
	}
	if c.SFGK.MaxEvents <= 0 {
		return fmt.Errorf("sfgk max_events must be positive")
	}

	if len(c.CST.Lambdas) == 0 {
		return fmt.Errorf("cst lambdas must not be empty")
	}
	if len(c.CST.Lambdas) != len(c.CST.Thetas) {
		return fmt.Errorf("cst lambdas (%d) and thetas (%d) must have equal length",
			len(c.CST.Lambdas), len(c.CST.Thetas))
	}
	if len(c.CST.Lambdas) > c.Book.Levels {
		return fmt.Errorf("cst window %d exceeds book levels %d", len(c.CST.Lambdas), c.Book.Levels)
	}
	if c.CST.MaxEvents <= 0 {
		return fmt.Errorf("cst max_events must be positive")
	}

	if c.Estimators.Trials <= 0 {
		return fmt.Errorf("estimator trials must be positive")
	}
	if c.Estimators.QueueSize <= 0 {
		return fmt.Errorf("estimator queue_size must be positive")
	}
	if c.Estimators.Tolerance != "" {
		if _, err := decimal.NewFromString(c.Estimators.Tolerance); err != nil {
			return fmt.Errorf("estimator tolerance %q is not a decimal: %w", c.Estimators.Tolerance, err)
		}
	}

	return nil
}

// ToleranceDecimal returns the estimator drift tolerance, zero when
// unset. Validate guarantees the stored string parses.
func (c *Config) ToleranceDecimal() decimal.Decimal {
	if c.Estimators.Tolerance == "" {
		return decimal.Zero
	}
	d, _ := decimal.NewFromString(c.Estimators.Tolerance)
	return d
}

// overrideWithEnv replaces configuration values with environment
// variables when present.
func overrideWithEnv(cfg *Config) {
	if seed := os.Getenv("LOB_SEED"); seed != "" {
		if v, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Simulation.Seed = v
		}
	}
	if workers := os.Getenv("LOB_WORKERS"); workers != "" {
		if v, err := strconv.Atoi(workers); err == nil {
			cfg.Simulation.Workers = v
		}
	}
	if addr := os.Getenv("LOB_STREAM_ADDR"); addr != "" {
		cfg.Output.StreamAddr = addr
	}
	if db := os.Getenv("LOB_DB_PATH"); db != "" {
		cfg.Output.DBPath = db
	}
}
