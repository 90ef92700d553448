package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App      *AppConfig      `yaml:"app"`
	Database *DatabaseConfig `yaml:"database"`
	Redis    *RedisConfig    `yaml:"redis"`
	Shopify  *ShopifyConfig  `yaml:"shopify"`
	Security *SecurityConfig `yaml:"security"`
	Program  *ProgramConfig  `yaml:"program"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
	Port        int    `yaml:"port"`
	Host        string `yaml:"host"`
	BaseURL     string `yaml:"base_url"`
	Debug       bool   `yaml:"debug"`
	LogLevel    string `yaml:"log_level"`
	Currency    string `yaml:"currency"`
}

type SecurityConfig struct {
	EditSecret         string        `yaml:"edit_secret"`
	EditUnlockTTL      time.Duration `yaml:"edit_unlock_ttl"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
}

// ProgramConfig holds the static fallbacks used when a shop has no persisted
// program settings yet. The reconciler always reads the resolved settings,
// never these values directly.
type ProgramConfig struct {
	CreditThreshold      float64 `yaml:"credit_threshold"`
	CreditPerStep        float64 `yaml:"credit_per_step"`
	DefaultDiscountValue float64 `yaml:"default_discount_value"`
	DefaultDiscountType  string  `yaml:"default_discount_type"`
	DefaultCodePrefix    string  `yaml:"default_code_prefix"`
}

func Load() (*Config, error) {
	config := &Config{
		App:      loadAppConfig(),
		Database: loadDatabaseConfig(),
		Redis:    loadRedisConfig(),
		Shopify:  loadShopifyConfig(),
		Security: loadSecurityConfig(),
		Program:  loadProgramConfig(),
	}

	return config, nil
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:        getEnv("APP_NAME", "ProHealthPartners"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Port:        getEnvAsInt("APP_PORT", 8080),
		Host:        getEnv("APP_HOST", "localhost"),
		BaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		Debug:       getEnvAsBool("APP_DEBUG", true),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Currency:    getEnv("APP_CURRENCY", "EUR"),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		EditSecret:         getEnv("EDIT_MODE_SECRET", ""),
		EditUnlockTTL:      getEnvAsDuration("EDIT_UNLOCK_TTL", 30*time.Minute),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func loadProgramConfig() *ProgramConfig {
	return &ProgramConfig{
		CreditThreshold:      getEnvAsFloat64("PROGRAM_CREDIT_THRESHOLD", 500),
		CreditPerStep:        getEnvAsFloat64("PROGRAM_CREDIT_PER_STEP", 10),
		DefaultDiscountValue: getEnvAsFloat64("PROGRAM_DEFAULT_DISCOUNT_VALUE", 10),
		DefaultDiscountType:  getEnv("PROGRAM_DEFAULT_DISCOUNT_TYPE", "percentage"),
		DefaultCodePrefix:    getEnv("PROGRAM_DEFAULT_CODE_PREFIX", "PRO_"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func IsProduction() bool {
	return getEnv("APP_ENV", "development") == "production"
}

func IsDevelopment() bool {
	return getEnv("APP_ENV", "development") == "development"
}
