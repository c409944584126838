package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the agent.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Kafka      KafkaConfig
	Logger     LoggerConfig
	Scoring    ScoringConfig
	Escalation EscalationConfig
}

// AppConfig controls server and worker level behavior.
type AppConfig struct {
	Name                   string
	Env                    string
	Host                   string
	Port                   string
	Version                string
	RequestTimeoutSeconds  int
	RefreshIntervalSeconds int
	AnalysisWindowHours    int
	AnalysisBatchLimit     int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// KafkaConfig holds the optional notification broker settings. An empty
// broker list disables publishing.
type KafkaConfig struct {
	Brokers         []string
	EscalationTopic string
	ReportTopic     string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// ScoringConfig parameterizes the severity scorer and insight generator.
// Values can be overridden from a YAML rules file.
type ScoringConfig struct {
	RulesFile        string   `yaml:"-"`
	CriticalServices []string `yaml:"critical_services"`
	PeakHours        []int    `yaml:"peak_hours"`
	TeamLoadHigh     int      `yaml:"team_load_high"`
	TeamLoadElevated int      `yaml:"team_load_elevated"`
	TeamCapacity     int      `yaml:"team_capacity"`
	MaxActions       int      `yaml:"max_actions"`
}

// EscalationConfig keeps the escalation-trigger threshold separate from
// the level table; the defaults happen to align at the level-2 boundary
// but the two are independently tunable.
type EscalationConfig struct {
	TriggerThreshold int `yaml:"trigger_threshold"`
	Level1Threshold  int `yaml:"level1_threshold"`
	Level2Threshold  int `yaml:"level2_threshold"`
	Level3Threshold  int `yaml:"level3_threshold"`
}

// rulesFile is the YAML shape of the optional scoring rules file.
type rulesFile struct {
	Scoring    ScoringConfig    `yaml:"scoring"`
	Escalation EscalationConfig `yaml:"escalation"`
}

// Load reads configuration from environment variables, applying defaults
// where possible, and merges the optional scoring rules file on top.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                   getEnv("APP_NAME", "sla-monitor"),
			Env:                    getEnv("APP_ENV", "development"),
			Host:                   getEnv("APP_HOST", "0.0.0.0"),
			Port:                   getEnv("APP_PORT", "8080"),
			Version:                getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds:  getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			RefreshIntervalSeconds: getEnvAsInt("REFRESH_INTERVAL_SECONDS", 300),
			AnalysisWindowHours:    getEnvAsInt("ANALYSIS_WINDOW_HOURS", 24),
			AnalysisBatchLimit:     getEnvAsInt("ANALYSIS_BATCH_LIMIT", 100),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:         getEnvAsList("KAFKA_BROKERS", nil),
			EscalationTopic: getEnv("KAFKA_ESCALATION_TOPIC", "sla-escalations"),
			ReportTopic:     getEnv("KAFKA_REPORT_TOPIC", "sla-reports"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Scoring:    DefaultScoring(),
		Escalation: DefaultEscalation(),
	}

	cfg.Scoring.RulesFile = getEnv("SCORING_RULES_FILE", "")
	if cfg.Scoring.RulesFile != "" {
		if err := mergeRulesFile(cfg, cfg.Scoring.RulesFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// DefaultScoring returns the compiled-in scoring rules.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		CriticalServices: []string{"Database", "Security", "Payment"},
		PeakHours:        []int{9, 10, 14, 15},
		TeamLoadHigh:     150,
		TeamLoadElevated: 100,
		TeamCapacity:     10,
		MaxActions:       5,
	}
}

// DefaultEscalation returns the compiled-in escalation thresholds.
func DefaultEscalation() EscalationConfig {
	return EscalationConfig{
		TriggerThreshold: 7,
		Level1Threshold:  5,
		Level2Threshold:  7,
		Level3Threshold:  9,
	}
}

func mergeRulesFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read scoring rules file: %w", err)
	}
	rules := rulesFile{Scoring: cfg.Scoring, Escalation: cfg.Escalation}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return fmt.Errorf("parse scoring rules file: %w", err)
	}
	rulesPath := cfg.Scoring.RulesFile
	cfg.Scoring = rules.Scoring
	cfg.Scoring.RulesFile = rulesPath
	cfg.Escalation = rules.Escalation
	return nil
}

// PeakHour reports whether the given hour is in the high-volume set.
func (s ScoringConfig) PeakHour(hour int) bool {
	for _, h := range s.PeakHours {
		if h == hour {
			return true
		}
	}
	return false
}

// CriticalService reports whether a service name matches one of the
// configured critical-service markers.
func (s ScoringConfig) CriticalService(name string) bool {
	for _, marker := range s.CriticalServices {
		if marker != "" && strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// RefreshInterval returns the worker polling interval.
func (a AppConfig) RefreshInterval() time.Duration {
	if a.RefreshIntervalSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(a.RefreshIntervalSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
