package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger        `mapstructure:"logger"`
	DB           Database      `mapstructure:"database"`
	API          API           `mapstructure:"api"`
	YahooFinance YahooFinance  `mapstructure:"yahoo_finance"`
	Cache        Cache         `mapstructure:"cache"`
	Scheduler    Scheduler     `mapstructure:"scheduler"`
	Advisor      AdvisorConfig `mapstructure:"advisor"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Scheduler struct {
	Enabled        bool     `mapstructure:"enabled"`
	CronSpec       string   `mapstructure:"cron_spec"`
	MaxConcurrency int      `mapstructure:"max_concurrency"`
	Watchlist      []string `mapstructure:"watchlist"`
}

// AdvisorConfig carries the tunables the composition root hands to the
// strategy layer. Zero values fall back to the strategy package defaults.
type AdvisorConfig struct {
	Strategy       string  `mapstructure:"strategy"`
	InitialCapital float64 `mapstructure:"initial_capital"`
	MinScore       float64 `mapstructure:"min_score"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("yahoo_finance.base_url", "https://query1.finance.yahoo.com/v8/finance/chart")
	viper.SetDefault("yahoo_finance.timeout", 10*time.Second)
	viper.SetDefault("yahoo_finance.max_request_per_minute", 60)
	viper.SetDefault("yahoo_finance.cache_ttl", 5*time.Minute)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("scheduler.cron_spec", "0 18 * * 1-5")
	viper.SetDefault("scheduler.max_concurrency", 5)
	viper.SetDefault("advisor.strategy", "ensemble")
	viper.SetDefault("advisor.initial_capital", 10000)
}
