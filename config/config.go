package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"tictactoe/experiments/metrics"
	"tictactoe/meta"
	"tictactoe/searcher"
)

// Config contains every setting of the command line tool. Values come from defaults, then
// an optional YAML file, then TICTACTOE_* environment variables, then flags.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Arena   ArenaConfig   `yaml:"arena"`
	Sample  SampleConfig  `yaml:"sample"`
}

type SearchConfig struct {
	Time          time.Duration `yaml:"time" validate:"gte=0"`
	MaxMoves      int           `yaml:"max_moves" validate:"gte=1"`
	C             float64       `yaml:"exploration_constant" validate:"gte=0"`
	Simulations   int           `yaml:"simulations" validate:"gte=0"`
	Goroutines    int           `yaml:"goroutines" validate:"gte=1"`
	StoreCapacity int           `yaml:"store_capacity" validate:"gte=0"`
	Seed          uint64        `yaml:"seed"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error disabled"`
	Pretty bool   `yaml:"pretty"`
}

type MetricsConfig struct {
	// Addr serves Prometheus metrics when set, e.g. ":9090".
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

type ArenaConfig struct {
	Games       int                   `yaml:"games" validate:"gte=1"`
	Parallel    int                   `yaml:"parallel" validate:"gte=1"`
	OutputDir   string                `yaml:"output_dir" validate:"required"`
	Baseline    metrics.AgentConfig   `yaml:"baseline"`
	Challengers []metrics.AgentConfig `yaml:"challengers" validate:"min=1,dive"`
}

type SampleConfig struct {
	Rows   int    `yaml:"rows" validate:"gte=1"`
	Output string `yaml:"output" validate:"required"`
	Seed   uint64 `yaml:"seed"`
}

var validate = validator.New()

var ErrDuplicateAgent = errors.New("duplicate arena agent id")

func Default() Config {
	search := searcher.DefaultConfig()
	budget := 50 * time.Millisecond
	return Config{
		Search: SearchConfig{
			Time:       search.Time,
			MaxMoves:   search.MaxMoves,
			C:          search.C,
			Goroutines: search.Goroutines,
		},
		Log: LogConfig{
			Level:  zerolog.InfoLevel.String(),
			Pretty: true,
		},
		Arena: ArenaConfig{
			Games:     meta.ARENA_GAMES,
			Parallel:  meta.ARENA_PARALLEL,
			OutputDir: meta.ARENA_DIR,
			Baseline:  metrics.AgentConfig{ID: 0, Goroutines: 1, Duration: budget},
			Challengers: []metrics.AgentConfig{
				{ID: 1, Goroutines: 1, Duration: budget, C: meta.Easy.C},
				{ID: 2, Goroutines: 1, Duration: budget, C: meta.Hard.C},
				{ID: 3, Goroutines: 4, Duration: budget},
			},
		},
		Sample: SampleConfig{
			Rows:   meta.SAMPLE_ROWS,
			Output: "random_data.csv",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path or a missing file
// keeps the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Msgf("config file %s not found, using defaults", path)
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func loadEnv(cfg *Config) error {
	if v := os.Getenv("TICTACTOE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TICTACTOE_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
	if v := os.Getenv("TICTACTOE_SEARCH_TIME"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TICTACTOE_SEARCH_TIME: %w", err)
		}
		cfg.Search.Time = d
	}
	if v := os.Getenv("TICTACTOE_SEARCH_SIMULATIONS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TICTACTOE_SEARCH_SIMULATIONS: %w", err)
		}
		cfg.Search.Simulations = n
	}
	if v := os.Getenv("TICTACTOE_SEARCH_C"); v != "" {
		c, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("TICTACTOE_SEARCH_C: %w", err)
		}
		cfg.Search.C = c
	}
	return nil
}

// Validate checks field constraints and that every search has a budget.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if err := c.Search.Config().Validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	return c.Arena.validateAgents()
}

// Validate checks an arena configuration on its own, as RunArena receives it.
func (a ArenaConfig) Validate() error {
	if err := validate.Struct(a); err != nil {
		return err
	}
	return a.validateAgents()
}

// validateAgents requires a search budget per agent and distinct IDs, since records and
// summaries tell agents apart by ID.
func (a ArenaConfig) validateAgents() error {
	agents := append([]metrics.AgentConfig{a.Baseline}, a.Challengers...)
	for _, agent := range agents {
		if err := agent.SearchConfig().Validate(); err != nil {
			return fmt.Errorf("arena agent %d: %w", agent.ID, err)
		}
	}
	if dups := lo.FindDuplicatesBy(agents, func(agent metrics.AgentConfig) int { return agent.ID }); len(dups) > 0 {
		return fmt.Errorf("%w: %d", ErrDuplicateAgent, dups[0].ID)
	}
	return nil
}

func (s SearchConfig) Config() searcher.Config {
	return searcher.Config{
		Time:          s.Time,
		MaxMoves:      s.MaxMoves,
		C:             s.C,
		Simulations:   s.Simulations,
		Goroutines:    s.Goroutines,
		StoreCapacity: s.StoreCapacity,
		Seed:          s.Seed,
	}
}

func (l LogConfig) ZerologLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
