package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	OpenAIAPIKey      string
	GradingModel      string
	GradingTimeout    time.Duration
	SubmissionLimit   int
	SubmissionWindow  time.Duration
	MaxCodeBytes      int
	DashboardCacheTTL time.Duration
	AdminUsername     string
	AdminPassword     string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("GRADER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Classroom Autograder API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("grading.model", "gpt-4o-mini")
	v.SetDefault("grading.timeout", "30s")
	v.SetDefault("submission.limit", 10)
	v.SetDefault("submission.window", "24h")
	v.SetDefault("submission.max_code_bytes", 64*1024)
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("admin.username", "admin")

	gradingTimeout, err := time.ParseDuration(v.GetString("grading.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid grading timeout: %w", err)
	}

	window, err := time.ParseDuration(v.GetString("submission.window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submission window: %w", err)
	}

	ttl, err := time.ParseDuration(v.GetString("dashboard.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		GradingModel:      v.GetString("grading.model"),
		GradingTimeout:    gradingTimeout,
		SubmissionLimit:   v.GetInt("submission.limit"),
		SubmissionWindow:  window,
		MaxCodeBytes:      v.GetInt("submission.max_code_bytes"),
		DashboardCacheTTL: ttl,
		AdminUsername:     v.GetString("admin.username"),
		AdminPassword:     v.GetString("admin.password"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.SubmissionLimit <= 0 {
		cfg.SubmissionLimit = 10
	}

	if cfg.SubmissionWindow <= 0 {
		cfg.SubmissionWindow = 24 * time.Hour
	}

	if cfg.MaxCodeBytes <= 0 {
		cfg.MaxCodeBytes = 64 * 1024
	}

	return cfg, nil
}
