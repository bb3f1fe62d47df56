package app

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/qsolog/internal/models"
	"github.com/shrimpsizemoose/qsolog/internal/scoreboard"
	"github.com/shrimpsizemoose/qsolog/internal/scoring"
)

const (
	defaultMigrationsDir = "./migrations"
	defaultContestName   = "Aktivitätswettbewerb Franken"
)

type Config struct {
	Operator models.Operator `toml:"operator"`

	Contest struct {
		Name     string `toml:"name"`
		Class    string `toml:"class"`
		TxReport string `toml:"tx_report"`
	} `toml:"contest"`

	Scoring struct {
		Multipliers    []string `toml:"multipliers"`
		ReviewPoints   int      `toml:"review_points"`
		CriticalPoints int      `toml:"critical_points"`
	} `toml:"scoring"`

	Archive struct {
		DSN           string `toml:"dsn" env:"QSOLOG_ARCHIVE_DSN"`
		MigrationsDir string `toml:"migrations_dir" env:"QSOLOG_MIGRATIONS_DIR"`
	} `toml:"archive"`

	Server struct {
		Port string `toml:"port" env:"QSOLOG_SERVER_PORT"`
	} `toml:"server"`

	Scoreboard scoreboard.Config `toml:"scoreboard"`

	Metrics struct {
		Textfile string `toml:"textfile"`
	} `toml:"metrics"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("error reading config file %s\n> Error: %w", path, err)
	}

	logger.Debug.Printf("Loaded operator config: %s in %s (%s)", config.Operator.Call, config.Operator.DOK, config.Operator.Locator)
	logger.Debug.Printf("Loaded scoring config: %+v", config.Scoring)

	return config, nil
}

// ParseConfig decodes, defaults and validates a TOML config. Connection
// strings may be overridden from the environment so they stay out of the file.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	config.Operator.Normalize()
	if err := config.Operator.Validate(); err != nil {
		return nil, fmt.Errorf("operator info is incomplete: %w", err)
	}

	if config.Contest.Class != "" {
		class, err := models.LookupClass(config.Contest.Class)
		if err != nil {
			return nil, err
		}
		config.Contest.Class = class.Code
	}

	if config.Contest.Name == "" {
		config.Contest.Name = defaultContestName
	}
	if config.Contest.TxReport == "" {
		config.Contest.TxReport = models.DefaultReport
	}
	probe := models.QSO{TxReport: config.Contest.TxReport}
	if err := probe.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tx_report %q: %w", config.Contest.TxReport, err)
	}

	if config.Archive.MigrationsDir == "" {
		config.Archive.MigrationsDir = defaultMigrationsDir
	}

	if config.Scoreboard.Enabled && config.Scoreboard.RedisURL == "" {
		return nil, fmt.Errorf("scoreboard is enabled but redis_url is not set")
	}

	return &config, nil
}

// Evaluator builds the scoring evaluator described by the config.
func (c *Config) Evaluator() *scoring.Evaluator {
	return scoring.NewEvaluator(
		c.Scoring.Multipliers,
		c.Scoring.ReviewPoints,
		c.Scoring.CriticalPoints,
	)
}
