// Package config loads service settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config stores service settings.
type Config struct {
	Port         int
	LogLevel     string
	DB           DB
	Allocation   Allocation
	Schedule     Schedule
	Kafka        Kafka
	Redis        Redis
	RateLimit    RateLimit
	StorageRetry StorageRetry
	Pprof        Pprof
}

// DB stores Postgres connection settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns a postgres:// connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Allocation mirrors the allocation policy. It can be loaded from a YAML file.
type Allocation struct {
	MaxWorkingHours     float64 `yaml:"max_working_hours"`
	MaxTravelDistanceKm float64 `yaml:"max_travel_distance_km"`
	MinutesPerKm        float64 `yaml:"minutes_per_km"`
	MinDailyEarning     int     `yaml:"min_daily_earning"`
	Tier1Orders         int     `yaml:"tier1_orders"`
	Tier1Payment        int     `yaml:"tier1_payment"`
	Tier2Orders         int     `yaml:"tier2_orders"`
	Tier2Payment        int     `yaml:"tier2_payment"`
	DefaultPayment      int     `yaml:"default_payment"`
	MinCandidateSize    int     `yaml:"min_candidate_size"`
	MaxCandidateSize    int     `yaml:"max_candidate_size"`
	Workers             int     `yaml:"workers"`
}

// Schedule stores cron specs for the worker. An empty spec disables the job.
type Schedule struct {
	Allocation string
	Checkout   string
	TimeZone   string
	JobTimeout time.Duration
}

// Location resolves TimeZone.
func (s Schedule) Location() (*time.Location, error) {
	if s.TimeZone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(s.TimeZone)
}

// Kafka stores check-in consumer settings. No brokers disables the consumer.
type Kafka struct {
	Brokers []string
	GroupID string
	Topic   string
}

// Redis stores run lock settings. An empty Addr selects the in-process lock.
type Redis struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// RateLimit stores the run trigger limiter settings.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// StorageRetry stores backoff settings for storage reads.
type StorageRetry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Pprof stores profiling listener settings. An empty Addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// Load reads configuration in order: .env (if present) → policy file → environment → flags.
func Load() (*Config, error) {
	loadDotEnv()

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}

	flags := pflag.CommandLine
	flags.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	flags.IntVar(&cfg.Allocation.Workers, "workers", cfg.Allocation.Workers, "warehouses processed in parallel")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv reads configuration without touching command line flags.
func FromEnv() (*Config, error) {
	loadDotEnv()

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotEnv() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}
}

func fromEnv() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("ALLOCATION_POLICY_FILE"); path != "" {
		if err := loadPolicyFile(path, &cfg.Allocation); err != nil {
			return nil, err
		}
	}

	var errs []error
	add := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	add(envInt("PORT", &cfg.Port))
	envString("LOG_LEVEL", &cfg.LogLevel)

	envString("POSTGRES_HOST", &cfg.DB.Host)
	envString("POSTGRES_PORT", &cfg.DB.Port)
	envString("POSTGRES_USER", &cfg.DB.User)
	envString("POSTGRES_PASSWORD", &cfg.DB.Pass)
	envString("POSTGRES_DB", &cfg.DB.Name)

	add(envFloat("ALLOCATION_MAX_WORKING_HOURS", &cfg.Allocation.MaxWorkingHours))
	add(envFloat("ALLOCATION_MAX_DISTANCE_KM", &cfg.Allocation.MaxTravelDistanceKm))
	add(envFloat("ALLOCATION_MINUTES_PER_KM", &cfg.Allocation.MinutesPerKm))
	add(envInt("ALLOCATION_MIN_DAILY_EARNING", &cfg.Allocation.MinDailyEarning))
	add(envInt("ALLOCATION_MIN_CANDIDATE_SIZE", &cfg.Allocation.MinCandidateSize))
	add(envInt("ALLOCATION_MAX_CANDIDATE_SIZE", &cfg.Allocation.MaxCandidateSize))
	add(envInt("ALLOCATION_WORKERS", &cfg.Allocation.Workers))

	envString("SCHEDULE_ALLOCATION", &cfg.Schedule.Allocation)
	envString("SCHEDULE_CHECKOUT", &cfg.Schedule.Checkout)
	envString("SCHEDULE_TZ", &cfg.Schedule.TimeZone)
	add(envDuration("SCHEDULE_JOB_TIMEOUT", &cfg.Schedule.JobTimeout))

	envList("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	envString("KAFKA_GROUP_ID", &cfg.Kafka.GroupID)
	envString("KAFKA_TOPIC", &cfg.Kafka.Topic)

	envString("REDIS_ADDR", &cfg.Redis.Addr)
	envString("REDIS_PASSWORD", &cfg.Redis.Password)
	add(envInt("REDIS_DB", &cfg.Redis.DB))
	add(envDuration("RUN_LOCK_TTL", &cfg.Redis.LockTTL))

	add(envBool("RATE_LIMIT_ENABLED", &cfg.RateLimit.Enabled))
	add(envFloat("RATE_LIMIT_RATE", &cfg.RateLimit.Rate))
	add(envInt("RATE_LIMIT_BURST", &cfg.RateLimit.Burst))
	add(envDuration("RATE_LIMIT_TTL", &cfg.RateLimit.TTL))
	add(envInt("RATE_LIMIT_MAX_BUCKETS", &cfg.RateLimit.MaxBuckets))

	add(envInt("STORAGE_RETRY_ATTEMPTS", &cfg.StorageRetry.MaxAttempts))
	add(envDuration("STORAGE_RETRY_BASE_DELAY", &cfg.StorageRetry.BaseDelay))
	add(envDuration("STORAGE_RETRY_MAX_DELAY", &cfg.StorageRetry.MaxDelay))

	envString("PPROF_ADDR", &cfg.Pprof.Addr)
	envString("PPROF_USER", &cfg.Pprof.User)
	envString("PPROF_PASSWORD", &cfg.Pprof.Pass)

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadPolicyFile(path string, dst *Allocation) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("parse policy file %s: %w", path, err)
	}
	return nil
}

// Validate checks values that cannot be fixed up later.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if p, err := strconv.Atoi(c.DB.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid POSTGRES_PORT: %q", c.DB.Port)
	}
	if _, err := c.Schedule.Location(); err != nil {
		return fmt.Errorf("invalid SCHEDULE_TZ: %w", err)
	}
	if c.Allocation.Workers < 1 {
		return fmt.Errorf("invalid workers: %d", c.Allocation.Workers)
	}
	return nil
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func envList(key string, dst *[]string) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func envInt(key string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envFloat(key string, dst *float64) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = f
	return nil
}

func envBool(key string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
