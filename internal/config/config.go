package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Лимиты бесплатного тарифа по умолчанию. На проде действуют жесткие
// значения, вне прода - просторные trial-лимиты. Явные значения из
// конфига или окружения (FREE_LEAD_LIMIT, FREE_AI_CALLS_PER_DAY)
// имеют приоритет в любом окружении.
const (
	DefaultFreeLeadLimit     = 5
	DefaultFreeAICallsPerDay = 0
	DevFreeLeadLimit         = 50
	DevFreeAICallsPerDay     = 10
)

// Config представляет структуру конфигурации для приложения.
type Config struct {
	App struct {
		Port string `mapstructure:"port" validate:"required,numeric"`
		Env  string `mapstructure:"env" validate:"required,oneof=development staging production"`
	} `mapstructure:"app"`
	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`
	Limits struct {
		FreeLeadLimit     int `mapstructure:"freeLeadLimit" validate:"min=0"`
		FreeAICallsPerDay int `mapstructure:"freeAiCallsPerDay" validate:"min=0"`
	} `mapstructure:"limits"`
	State struct {
		Path string `mapstructure:"path" validate:"required"` // путь к локальному SQLite файлу состояния
	} `mapstructure:"state"`
	Database struct {
		DSN string `mapstructure:"dsn"` // удаленный Postgres (user_subscriptions, scripts, leads)
	} `mapstructure:"database"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	LeadGen struct {
		BaseURL string `mapstructure:"baseUrl"`
		Token   string `mapstructure:"token"`
	} `mapstructure:"leadgen"`
	Copilot struct {
		BaseURL string `mapstructure:"baseUrl"`
	} `mapstructure:"copilot"`
	Auth struct {
		JWTSecret string `mapstructure:"jwtSecret"`
	} `mapstructure:"auth"`
}

// LoadConfig загружает конфигурацию из файла или переменных окружения.
func LoadConfig(path string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		// .env опционален: локально удобен, в контейнере его обычно нет
		_ = godotenv.Load(path)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("state.path", "entitlement.db")

	viper.AutomaticEnv() // Чтение переменных окружения

	// Лимиты переключаются без пересборки бинаря
	_ = viper.BindEnv("app.env", "APP_ENV")
	_ = viper.BindEnv("limits.freeLeadLimit", "FREE_LEAD_LIMIT")
	_ = viper.BindEnv("limits.freeAiCallsPerDay", "FREE_AI_CALLS_PER_DAY")
	_ = viper.BindEnv("database.dsn", "DATABASE_DSN")
	_ = viper.BindEnv("state.path", "STATE_PATH")
	_ = viper.BindEnv("auth.jwtSecret", "JWT_SECRET")

	if err := viper.ReadInConfig(); err != nil {
		// Файл конфигурации опционален, если все задано через окружение
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Дефолтные лимиты зависят от окружения: на проде бесплатный тариф
	// жесткий (5 лидов, 0 AI-вызовов), в разработке просторный trial.
	// Явные значения из файла или окружения имеют приоритет.
	if viper.GetString("app.env") == "production" {
		viper.SetDefault("limits.freeLeadLimit", DefaultFreeLeadLimit)
		viper.SetDefault("limits.freeAiCallsPerDay", DefaultFreeAICallsPerDay)
	} else {
		viper.SetDefault("limits.freeLeadLimit", DevFreeLeadLimit)
		viper.SetDefault("limits.freeAiCallsPerDay", DevFreeAICallsPerDay)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return &config, nil
}

// IsProduction сообщает, запущен ли сервис в продакшен-окружении.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
