// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type BookingConfig struct {
	// ClampRefundFloor keeps computed refunds at or above zero when the
	// cancellation fee exceeds the amount paid.
	ClampRefundFloor *bool `yaml:"clamp_refund_floor"`
	// DefaultCurrency is used for clubs that have not set one.
	DefaultCurrency string `yaml:"default_currency"`
}

type SchedulerConfig struct {
	// NotificationDispatchCron drains the pending notification outbox.
	NotificationDispatchCron string `yaml:"notification_dispatch_cron"`
	// BookingSweepCron advances CONFIRMED bookings whose start time has
	// passed and completes bookings whose end time has passed.
	BookingSweepCron string `yaml:"booking_sweep_cron"`
	// NotificationBatchSize caps how many pending notifications a single
	// dispatch run picks up.
	NotificationBatchSize int `yaml:"notification_batch_size"`
}

type EmailConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Region      string `yaml:"region"`
	FromAddress string `yaml:"from_address"`
	// Credentials are loaded from the environment.
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	BurstSize         int  `yaml:"burst_size"`
}

type Config struct {
	App struct {
		Name        string `yaml:"name"`
		Environment string `yaml:"environment"`
		Port        int    `yaml:"port"`
		BaseURL     string `yaml:"base_url"`
		SecretKey   string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database  DatabaseConfig  `yaml:"database"`
	Booking   BookingConfig   `yaml:"booking"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Email     EmailConfig     `yaml:"email"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Features struct {
		EnableDebug bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	// Read and parse YAML config
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	// Load sensitive values from environment
	cfg.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	cfg.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	cfg.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")

	cfg.applyDefaults()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Booking.ClampRefundFloor == nil {
		clamp := true
		c.Booking.ClampRefundFloor = &clamp
	}
	if c.Booking.DefaultCurrency == "" {
		c.Booking.DefaultCurrency = "MXN"
	}
	if c.Scheduler.NotificationDispatchCron == "" {
		c.Scheduler.NotificationDispatchCron = "*/1 * * * *"
	}
	if c.Scheduler.BookingSweepCron == "" {
		c.Scheduler.BookingSweepCron = "*/5 * * * *"
	}
	if c.Scheduler.NotificationBatchSize == 0 {
		c.Scheduler.NotificationBatchSize = 50
	}
	if c.RateLimit.RequestsPerMinute == 0 {
		c.RateLimit.RequestsPerMinute = 60
	}
	if c.RateLimit.BurstSize == 0 {
		c.RateLimit.BurstSize = 10
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}
	if c.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.Database.Filename == "" {
		return fmt.Errorf("database filename is required for sqlite")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Scheduler.NotificationDispatchCron); err != nil {
		return fmt.Errorf("invalid notification dispatch cron %q: %w", c.Scheduler.NotificationDispatchCron, err)
	}
	if _, err := parser.Parse(c.Scheduler.BookingSweepCron); err != nil {
		return fmt.Errorf("invalid booking sweep cron %q: %w", c.Scheduler.BookingSweepCron, err)
	}

	if c.Email.Enabled {
		if c.Email.Region == "" {
			return fmt.Errorf("email region is required when email is enabled")
		}
		if c.Email.FromAddress == "" {
			return fmt.Errorf("email from address is required when email is enabled")
		}
	}

	return nil
}
