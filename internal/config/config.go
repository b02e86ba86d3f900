package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Overpayment policies for repayments exceeding total outstanding.
const (
	OverpaymentPolicyHold   = "hold"
	OverpaymentPolicyReject = "reject"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Business  BusinessConfig  `mapstructure:"business"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	AccrualCron string `mapstructure:"SCHEDULER_ACCRUAL_CRON"`
	PostingCron string `mapstructure:"SCHEDULER_POSTING_CRON"`
	OverdueCron string `mapstructure:"SCHEDULER_OVERDUE_CRON"`
	Timezone    string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type BusinessConfig struct {
	BankCode              string `mapstructure:"BANK_CODE"`
	DefaultCurrency       string `mapstructure:"DEFAULT_CURRENCY"`
	DayCountBasis         int    `mapstructure:"DAY_COUNT_BASIS"`
	MinBalanceForInterest string `mapstructure:"MIN_BALANCE_FOR_INTEREST"`
	OverpaymentPolicy     string `mapstructure:"OVERPAYMENT_POLICY"`
	InterestExpenseGL     string `mapstructure:"INTEREST_EXPENSE_GL_ACCOUNT"`
	LoanAssetGL           string `mapstructure:"LOAN_ASSET_GL_ACCOUNT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("SERVER_READ_TIMEOUT", "15s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "15s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SCHEDULER_ACCRUAL_CRON", "0 0 0 * * *")
	viper.SetDefault("SCHEDULER_POSTING_CRON", "0 30 0 1 * *")
	viper.SetDefault("SCHEDULER_OVERDUE_CRON", "0 15 0 * * *")
	viper.SetDefault("SCHEDULER_TIMEZONE", "Africa/Lagos")
	viper.SetDefault("BANK_CODE", "999999")
	viper.SetDefault("DEFAULT_CURRENCY", "NGN")
	viper.SetDefault("DAY_COUNT_BASIS", 365)
	viper.SetDefault("MIN_BALANCE_FOR_INTEREST", "1000.00")
	viper.SetDefault("OVERPAYMENT_POLICY", OverpaymentPolicyHold)
	viper.SetDefault("INTEREST_EXPENSE_GL_ACCOUNT", "9100000014")
	viper.SetDefault("LOAN_ASSET_GL_ACCOUNT", "9100000022")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.DayCountBasis != 360 && c.Business.DayCountBasis != 365 {
		return fmt.Errorf("DAY_COUNT_BASIS must be 360 or 365")
	}

	if c.Business.OverpaymentPolicy != OverpaymentPolicyHold && c.Business.OverpaymentPolicy != OverpaymentPolicyReject {
		return fmt.Errorf("OVERPAYMENT_POLICY must be %q or %q", OverpaymentPolicyHold, OverpaymentPolicyReject)
	}

	if len(c.Business.BankCode) < 3 {
		return fmt.Errorf("BANK_CODE must be at least 3 digits")
	}

	if c.Business.InterestExpenseGL == "" || c.Business.LoanAssetGL == "" {
		return fmt.Errorf("INTEREST_EXPENSE_GL_ACCOUNT and LOAN_ASSET_GL_ACCOUNT are required")
	}

	if _, err := decimal.NewFromString(c.Business.MinBalanceForInterest); err != nil {
		return fmt.Errorf("MIN_BALANCE_FOR_INTEREST must be a valid decimal: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetMinBalanceForInterest returns the interest floor as decimal
func (c *Config) GetMinBalanceForInterest() decimal.Decimal {
	min, _ := decimal.NewFromString(c.Business.MinBalanceForInterest)
	return min
}

// GetDayCountBasis returns the day-count divisor as decimal
func (c *Config) GetDayCountBasis() decimal.Decimal {
	return decimal.NewFromInt(int64(c.Business.DayCountBasis))
}
