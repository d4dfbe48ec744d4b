package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	DB        DBConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	IDGen     IDGenConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	Timezone    string
	AutoMigrate bool
}

type DBConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	MaxIdleConns int
	MaxOpenConns int
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
	CacheTTL time.Duration
}

// SchedulerConfig drives the maintenance jobs. Specs use the standard
// five-field cron syntax and are evaluated in App.Timezone.
type SchedulerConfig struct {
	Enabled      bool
	ExpireSpec   string
	RolloverSpec string
	RunTimeout   time.Duration
	LockTTL      time.Duration
}

type IDGenConfig struct {
	MaxAttempts int
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("APP_PORT", "8000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_TIMEZONE", "UTC")
	v.SetDefault("APP_AUTO_MIGRATE", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("REDIS_ENABLED", true)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_CACHE_TTL", "5m")
	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("SCHEDULER_EXPIRE_SPEC", "5 0 * * *")
	v.SetDefault("SCHEDULER_ROLLOVER_SPEC", "5 0 * * 1")
	v.SetDefault("SCHEDULER_RUN_TIMEOUT", "10m")
	v.SetDefault("SCHEDULER_LOCK_TTL", "15m")
	v.SetDefault("IDGEN_MAX_ATTEMPTS", 5)

	// The .env file is optional; environment variables still apply.
	_ = v.ReadInConfig()

	runTimeout, err := time.ParseDuration(v.GetString("SCHEDULER_RUN_TIMEOUT"))
	if err != nil {
		runTimeout = 10 * time.Minute
	}

	lockTTL, err := time.ParseDuration(v.GetString("SCHEDULER_LOCK_TTL"))
	if err != nil {
		lockTTL = 15 * time.Minute
	}

	cacheTTL, err := time.ParseDuration(v.GetString("REDIS_CACHE_TTL"))
	if err != nil {
		cacheTTL = 5 * time.Minute
	}

	config := &Config{
		App: AppConfig{
			Port:        v.GetString("APP_PORT"),
			Env:         v.GetString("APP_ENV"),
			LogLevel:    v.GetString("LOG_LEVEL"),
			Timezone:    v.GetString("APP_TIMEZONE"),
			AutoMigrate: v.GetBool("APP_AUTO_MIGRATE"),
		},
		DB: DBConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			CacheTTL: cacheTTL,
		},
		Scheduler: SchedulerConfig{
			Enabled:      v.GetBool("SCHEDULER_ENABLED"),
			ExpireSpec:   v.GetString("SCHEDULER_EXPIRE_SPEC"),
			RolloverSpec: v.GetString("SCHEDULER_ROLLOVER_SPEC"),
			RunTimeout:   runTimeout,
			LockTTL:      lockTTL,
		},
		IDGen: IDGenConfig{
			MaxAttempts: v.GetInt("IDGEN_MAX_ATTEMPTS"),
		},
	}

	if config.IDGen.MaxAttempts < 1 {
		return nil, fmt.Errorf("IDGEN_MAX_ATTEMPTS must be at least 1, got %d", config.IDGen.MaxAttempts)
	}
	if _, err := config.Location(); err != nil {
		return nil, err
	}

	return config, nil
}

// Location resolves App.Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	return loc, nil
}

// PostgresURL is the URL form of the DB settings, used by migrations.
// Credentials and database name are escaped.
func (c DBConfig) PostgresURL() string {
	u := url.URL{
		Scheme:   "pgx5",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c *Config) IsDev() bool {
	return c.App.Env == "development"
}
