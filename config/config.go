package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	EngineConfig   EngineConfig   `json:"engine"`
	RiskConfig     RiskConfig     `json:"risk"`
	TrailingConfig TrailingConfig `json:"trailing"`
	LoggingConfig  LoggingConfig  `json:"logging"`
	DatabaseConfig DatabaseConfig `json:"database"`
	RedisConfig    RedisConfig    `json:"redis"`
}

// EngineConfig drives which robots run and on what data.
type EngineConfig struct {
	Pairs          []string `json:"pairs"`           // e.g. ["EURUSD", "GBPUSD"]
	Timeframe      string   `json:"timeframe"`       // e.g. "H1"
	Robots         []string `json:"robots"`          // robot type names from the registry
	Plan           string   `json:"plan"`            // "free" or "premium"
	AccountBalance float64  `json:"account_balance"` // starting balance for position sizing
}

type RiskConfig struct {
	RiskPercent      float64 `json:"risk_percent"`       // default risk per trade
	MaxRiskPercent   float64 `json:"max_risk_percent"`   // hard cap per trade
	MaxOpenPositions int     `json:"max_open_positions"` // concurrent position limit
	MaxDailyLossPct  float64 `json:"max_daily_loss_pct"` // stop trading past this daily loss
}

type TrailingConfig struct {
	Enabled        bool    `json:"enabled"`
	ActivationPips float64 `json:"activation_pips"`
	TrailPips      float64 `json:"trail_pips"`
}

type LoggingConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Pretty bool   `json:"pretty"` // console output instead of JSON
	Output string `json:"output"` // stdout, stderr, or file path
}

type DatabaseConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"ssl_mode"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	PoolSize int    `json:"pool_size"`
	TTLSecs  int    `json:"ttl_seconds"`
}

// Load reads config.json when present and applies environment variable
// overrides on top.
func Load() (*Config, error) {
	cfg, err := loadFromFile("config.json")
	if err != nil {
		cfg = &Config{}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	// Engine config
	if pairs := os.Getenv("ENGINE_PAIRS"); pairs != "" {
		cfg.EngineConfig.Pairs = splitList(pairs)
	}
	if len(cfg.EngineConfig.Pairs) == 0 {
		cfg.EngineConfig.Pairs = []string{"EURUSD"}
	}
	cfg.EngineConfig.Timeframe = getEnvOrDefault("ENGINE_TIMEFRAME", defaultString(cfg.EngineConfig.Timeframe, "H1"))
	if robots := os.Getenv("ENGINE_ROBOTS"); robots != "" {
		cfg.EngineConfig.Robots = splitList(robots)
	}
	if len(cfg.EngineConfig.Robots) == 0 {
		cfg.EngineConfig.Robots = []string{"RSI Robot"}
	}
	cfg.EngineConfig.Plan = getEnvOrDefault("ENGINE_PLAN", defaultString(cfg.EngineConfig.Plan, "free"))
	cfg.EngineConfig.AccountBalance = getEnvFloatOrDefault("ENGINE_ACCOUNT_BALANCE", defaultFloat(cfg.EngineConfig.AccountBalance, 10000))

	// Risk config
	cfg.RiskConfig.RiskPercent = getEnvFloatOrDefault("RISK_PERCENT", defaultFloat(cfg.RiskConfig.RiskPercent, 1.0))
	cfg.RiskConfig.MaxRiskPercent = getEnvFloatOrDefault("RISK_MAX_PERCENT", defaultFloat(cfg.RiskConfig.MaxRiskPercent, 2.0))
	cfg.RiskConfig.MaxOpenPositions = getEnvIntOrDefault("RISK_MAX_OPEN_POSITIONS", defaultInt(cfg.RiskConfig.MaxOpenPositions, 3))
	cfg.RiskConfig.MaxDailyLossPct = getEnvFloatOrDefault("RISK_MAX_DAILY_LOSS_PCT", defaultFloat(cfg.RiskConfig.MaxDailyLossPct, 5.0))

	// Trailing stop config
	cfg.TrailingConfig.Enabled = getEnvOrDefault("TRAILING_ENABLED", "true") == "true"
	cfg.TrailingConfig.ActivationPips = getEnvFloatOrDefault("TRAILING_ACTIVATION_PIPS", defaultFloat(cfg.TrailingConfig.ActivationPips, 20))
	cfg.TrailingConfig.TrailPips = getEnvFloatOrDefault("TRAILING_TRAIL_PIPS", defaultFloat(cfg.TrailingConfig.TrailPips, 15))

	// Logging config
	cfg.LoggingConfig.Level = getEnvOrDefault("LOG_LEVEL", defaultString(cfg.LoggingConfig.Level, "info"))
	cfg.LoggingConfig.Output = getEnvOrDefault("LOG_OUTPUT", defaultString(cfg.LoggingConfig.Output, "stdout"))
	cfg.LoggingConfig.Pretty = getEnvOrDefault("LOG_PRETTY", "false") == "true"

	// Database config
	cfg.DatabaseConfig.Enabled = getEnvOrDefault("DB_ENABLED", "false") == "true"
	cfg.DatabaseConfig.Host = getEnvOrDefault("DB_HOST", defaultString(cfg.DatabaseConfig.Host, "localhost"))
	cfg.DatabaseConfig.Port = getEnvIntOrDefault("DB_PORT", defaultInt(cfg.DatabaseConfig.Port, 5432))
	cfg.DatabaseConfig.User = getEnvOrDefault("DB_USER", defaultString(cfg.DatabaseConfig.User, "postgres"))
	cfg.DatabaseConfig.Password = getEnvOrDefault("DB_PASSWORD", cfg.DatabaseConfig.Password)
	cfg.DatabaseConfig.Database = getEnvOrDefault("DB_NAME", defaultString(cfg.DatabaseConfig.Database, "forex_signals"))
	cfg.DatabaseConfig.SSLMode = getEnvOrDefault("DB_SSLMODE", defaultString(cfg.DatabaseConfig.SSLMode, "disable"))

	// Redis config
	cfg.RedisConfig.Enabled = getEnvOrDefault("REDIS_ENABLED", "false") == "true"
	cfg.RedisConfig.Address = getEnvOrDefault("REDIS_ADDRESS", defaultString(cfg.RedisConfig.Address, "localhost:6379"))
	cfg.RedisConfig.Password = getEnvOrDefault("REDIS_PASSWORD", cfg.RedisConfig.Password)
	cfg.RedisConfig.DB = getEnvIntOrDefault("REDIS_DB", cfg.RedisConfig.DB)
	cfg.RedisConfig.PoolSize = getEnvIntOrDefault("REDIS_POOL_SIZE", defaultInt(cfg.RedisConfig.PoolSize, 10))
	cfg.RedisConfig.TTLSecs = getEnvIntOrDefault("REDIS_TTL_SECONDS", defaultInt(cfg.RedisConfig.TTLSecs, 300))
}

func loadFromFile(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}

	return &cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func defaultString(current, fallback string) string {
	if current == "" {
		return fallback
	}
	return current
}

func defaultInt(current, fallback int) int {
	if current == 0 {
		return fallback
	}
	return current
}

func defaultFloat(current, fallback float64) float64 {
	if current == 0 {
		return fallback
	}
	return current
}

// GenerateSampleConfig writes a config.json template with defaults.
func GenerateSampleConfig(filename string) error {
	cfg := &Config{}
	applyEnvOverrides(cfg)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}
