package main

import (
	"fmt"
	"os"
	"time"

	"ojarena/internal/arena/runlist"
	"ojarena/internal/common/cache"
	"ojarena/internal/common/db"
	commonmw "ojarena/internal/common/http/middleware"
	"ojarena/internal/common/mq"
	"ojarena/internal/common/storage"
	"ojarena/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8086"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// AppConfig holds the arena-service configuration.
type AppConfig struct {
	Server ServerConfig        `yaml:"server"`
	Logger logger.Config       `yaml:"logger"`
	CORS   commonmw.CORSConfig `yaml:"cors"`

	Database db.MySQLConfig      `yaml:"database"`
	Redis    cache.RedisConfig   `yaml:"redis"`
	MinIO    storage.MinIOConfig `yaml:"minio"`
	Kafka    mq.KafkaConfig      `yaml:"kafka"`

	Runs    RunsConfig    `yaml:"runs"`
	Display DisplayConfig `yaml:"display"`
	Status  StatusConfig  `yaml:"status"`
}

// RunsConfig holds run query settings.
type RunsConfig struct {
	QueryTimeout time.Duration `yaml:"queryTimeout"`
	// MaxRows caps the runs loaded for one list.
	MaxRows       int           `yaml:"maxRows"`
	CacheTTL      time.Duration `yaml:"cacheTTL"`
	EmptyCacheTTL time.Duration `yaml:"emptyCacheTTL"`
	// SourcePrefix is the object key prefix of run sources in the MinIO bucket.
	SourcePrefix   string `yaml:"sourcePrefix"`
	MaxSourceBytes int64  `yaml:"maxSourceBytes"`
}

// ColumnsConfig selects the optional run list columns.
type ColumnsConfig struct {
	Contest    bool `yaml:"contest"`
	Problem    bool `yaml:"problem"`
	User       bool `yaml:"user"`
	Points     bool `yaml:"points"`
	Rejudge    bool `yaml:"rejudge"`
	Disqualify bool `yaml:"disqualify"`
	Details    bool `yaml:"details"`
}

func (c ColumnsConfig) toColumns() runlist.Columns {
	return runlist.Columns{
		Contest:    c.Contest,
		Problem:    c.Problem,
		User:       c.User,
		Points:     c.Points,
		Rejudge:    c.Rejudge,
		Disqualify: c.Disqualify,
		Details:    c.Details,
	}
}

// DisplayConfig holds run list presentation settings.
type DisplayConfig struct {
	Columns             ColumnsConfig `yaml:"columns"`
	ShowPager           bool          `yaml:"showPager"`
	NewSubmissionButton bool          `yaml:"newSubmissionButton"`
	RowCount            int           `yaml:"rowCount"`
	TimeLayout          string        `yaml:"timeLayout"`
	TimeZone            string        `yaml:"timeZone"`
	DetailsURL          string        `yaml:"detailsURL"`
	ScriptURL           string        `yaml:"scriptURL"`
	LanguageDir         string        `yaml:"languageDir"`
	DefaultLanguage     string        `yaml:"defaultLanguage"`
	SessionTTL          time.Duration `yaml:"sessionTTL"`
	MaxSessions         int           `yaml:"maxSessions"`
}

func (d DisplayConfig) timeFormat() (runlist.TimeFormat, error) {
	loc, err := time.LoadLocation(d.TimeZone)
	if err != nil {
		return runlist.TimeFormat{}, fmt.Errorf("load time zone %q: %w", d.TimeZone, err)
	}
	return runlist.TimeFormat{Layout: d.TimeLayout, Location: loc}, nil
}

// StatusConfig holds the judge status consumer settings.
type StatusConfig struct {
	Enabled         *bool         `yaml:"enabled"`
	Topic           string        `yaml:"topic"`
	ConsumerGroup   string        `yaml:"consumerGroup"`
	Concurrency     int           `yaml:"concurrency"`
	MaxRetries      int           `yaml:"maxRetries"`
	RetryDelay      time.Duration `yaml:"retryDelay"`
	DeadLetterTopic string        `yaml:"deadLetterTopic"`
}

// IsEnabled reports whether live updates from the judge are consumed.
func (c StatusConfig) IsEnabled() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

func (c StatusConfig) toSubscribeOptions() *mq.SubscribeOptions {
	return &mq.SubscribeOptions{
		ConsumerGroup:   c.ConsumerGroup,
		Concurrency:     c.Concurrency,
		MaxRetries:      c.MaxRetries,
		RetryDelay:      c.RetryDelay,
		DeadLetterTopic: c.DeadLetterTopic,
	}
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis addr is required")
	}
	applyRedisDefaults(&cfg.Redis)

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}

	// Run query defaults.
	if cfg.Runs.QueryTimeout == 0 {
		cfg.Runs.QueryTimeout = 3 * time.Second
	}
	if cfg.Runs.MaxRows <= 0 {
		cfg.Runs.MaxRows = 1000
	}
	if cfg.Runs.CacheTTL == 0 {
		cfg.Runs.CacheTTL = 30 * time.Second
	}
	if cfg.Runs.EmptyCacheTTL == 0 {
		cfg.Runs.EmptyCacheTTL = 5 * time.Second
	}
	if cfg.Runs.SourcePrefix == "" {
		cfg.Runs.SourcePrefix = "runs"
	}

	// Display defaults.
	if cfg.Display.RowCount < 0 {
		cfg.Display.RowCount = 0
	}
	if cfg.Display.TimeLayout == "" {
		cfg.Display.TimeLayout = runlist.DefaultTimeLayout
	}
	if cfg.Display.TimeZone == "" {
		cfg.Display.TimeZone = "UTC"
	}
	if cfg.Display.LanguageDir == "" {
		cfg.Display.LanguageDir = "configs/lang"
	}
	if cfg.Display.DefaultLanguage == "" {
		cfg.Display.DefaultLanguage = "en"
	}

	if cfg.Status.IsEnabled() {
		if len(cfg.Kafka.Brokers) == 0 {
			return nil, fmt.Errorf("kafka brokers are required when status consumer is enabled")
		}
		if cfg.Status.Topic == "" {
			cfg.Status.Topic = "judge.status"
		}
		if cfg.Status.ConsumerGroup == "" {
			cfg.Status.ConsumerGroup = "arena-run-list"
		}
		if cfg.Status.Concurrency <= 0 {
			cfg.Status.Concurrency = 2
		}
	}

	return &cfg, nil
}

func applyRedisDefaults(cfg *cache.RedisConfig) {
	if cfg == nil {
		return
	}
	defaults := cache.DefaultRedisConfig()
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = defaults.DialTimeout
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.PoolSize == 0 {
		cfg.PoolSize = defaults.PoolSize
	}
	if cfg.MinIdleConns == 0 {
		cfg.MinIdleConns = defaults.MinIdleConns
	}
}
