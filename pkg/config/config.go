package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Redis configuration (latest-reading cache and live delivery)
	Redis RedisConfig `mapstructure:"redis"`

	// Anomaly alerting configuration
	Alerting AlertingConfig `mapstructure:"alerting"`

	// Notification engine configuration
	Notifications NotificationConfig `mapstructure:"notifications"`

	// Logging configuration
	LogLevel string `mapstructure:"log_level"`

	// Development mode attaches error causes to HTTP responses
	Development bool `mapstructure:"development"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
	IdleTimeout  int    `mapstructure:"idle_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr returns the host:port address for the Redis client
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AlertingConfig holds anomaly confirmation configuration
type AlertingConfig struct {
	// WindowMinutes is the trailing window over which anomaly labels are tracked
	WindowMinutes int `mapstructure:"window_minutes"`
	// ConfirmThreshold is the number of window entries carrying a label
	// before the label is treated as persistent
	ConfirmThreshold int `mapstructure:"confirm_threshold"`
}

// NotificationConfig holds notification engine configuration
type NotificationConfig struct {
	// RateLimitMax is the per-recipient creation quota within RateLimitWindowMinutes
	RateLimitMax           int `mapstructure:"rate_limit_max"`
	RateLimitWindowMinutes int `mapstructure:"rate_limit_window_minutes"`

	// Reminder delays before an unread notification becomes reminder-eligible
	ReminderDelayHighMinutes   int `mapstructure:"reminder_delay_high_minutes"`
	ReminderDelayMediumMinutes int `mapstructure:"reminder_delay_medium_minutes"`
	ReminderDelayLowMinutes    int `mapstructure:"reminder_delay_low_minutes"`

	// Maximum reminders per priority
	ReminderMaxHigh   int `mapstructure:"reminder_max_high"`
	ReminderMaxMedium int `mapstructure:"reminder_max_medium"`
	ReminderMaxLow    int `mapstructure:"reminder_max_low"`

	// SweepIntervalMinutes enables the built-in interval runner when > 0;
	// when 0 the sweeps are driven only through their HTTP entry points
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/jokkohealth")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	overrideWithEnv(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30)
	viper.SetDefault("server.write_timeout", 30)
	viper.SetDefault("server.idle_timeout", 120)

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "jokkohealth")
	viper.SetDefault("database.user", "jokkohealth")
	viper.SetDefault("database.ssl_mode", "require")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 300)

	// Redis defaults
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)

	// Alerting defaults: 5-minute window, 3 readings to confirm
	viper.SetDefault("alerting.window_minutes", 5)
	viper.SetDefault("alerting.confirm_threshold", 3)

	// Notification defaults: 100 notifications per recipient per rolling hour,
	// reminder delays 1h/4h/24h with maximums 3/2/1
	viper.SetDefault("notifications.rate_limit_max", 100)
	viper.SetDefault("notifications.rate_limit_window_minutes", 60)
	viper.SetDefault("notifications.reminder_delay_high_minutes", 60)
	viper.SetDefault("notifications.reminder_delay_medium_minutes", 240)
	viper.SetDefault("notifications.reminder_delay_low_minutes", 1440)
	viper.SetDefault("notifications.reminder_max_high", 3)
	viper.SetDefault("notifications.reminder_max_medium", 2)
	viper.SetDefault("notifications.reminder_max_low", 1)
	viper.SetDefault("notifications.sweep_interval_minutes", 0)

	// Logging defaults
	viper.SetDefault("log_level", "info")
	viper.SetDefault("development", false)
}

// overrideWithEnv overrides configuration with environment variables
func overrideWithEnv(config *Config) {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.LogLevel = logLevel
	}

	if dev := os.Getenv("DEVELOPMENT"); dev != "" {
		if d, err := strconv.ParseBool(dev); err == nil {
			config.Development = d
		}
	}
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Password == "" {
		return fmt.Errorf("database password is required")
	}

	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Alerting.WindowMinutes <= 0 {
		return fmt.Errorf("invalid alerting window: %d", config.Alerting.WindowMinutes)
	}

	if config.Alerting.ConfirmThreshold <= 0 {
		return fmt.Errorf("invalid alerting confirm threshold: %d", config.Alerting.ConfirmThreshold)
	}

	if config.Notifications.RateLimitMax <= 0 {
		return fmt.Errorf("invalid notification rate limit: %d", config.Notifications.RateLimitMax)
	}

	return nil
}
