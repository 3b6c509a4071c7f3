package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the arena service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	RedisURL         string
	NATSURL          string
	EventChannelBase string
	JudgeProvider    string
	OpenAIAPIKey     string
	JudgeModel       string
	JudgeMaxTokens   int
	JudgeTimeout     time.Duration
	SubmitRateMax    int
	SubmitRateWindow time.Duration
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
	v.SetEnvPrefix("ARENA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Arena API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("event.channel", "arena")
	v.SetDefault("judge.provider", "static")
	v.SetDefault("judge.model", "gpt-4o-mini")
	v.SetDefault("judge.max_tokens", 512)
	v.SetDefault("judge.timeout", "10s")
	v.SetDefault("submit.rate_max", 10)
	v.SetDefault("submit.rate_window", "1m")

	judgeTimeout, err := time.ParseDuration(v.GetString("judge.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid judge timeout: %w", err)
	}

	rateWindow, err := time.ParseDuration(v.GetString("submit.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid submit rate window: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		RedisURL:         v.GetString("redis.url"),
		NATSURL:          v.GetString("nats.url"),
		EventChannelBase: v.GetString("event.channel"),
		JudgeProvider:    strings.ToLower(v.GetString("judge.provider")),
		OpenAIAPIKey:     v.GetString("openai_api_key"),
		JudgeModel:       v.GetString("judge.model"),
		JudgeMaxTokens:   v.GetInt("judge.max_tokens"),
		JudgeTimeout:     judgeTimeout,
		SubmitRateMax:    v.GetInt("submit.rate_max"),
		SubmitRateWindow: rateWindow,
	}

	if cfg.JudgeProvider == "openai" && cfg.OpenAIAPIKey == "" {
		return Config{}, fmt.Errorf("openai judge selected but no api key provided")
	}

	if cfg.SubmitRateMax <= 0 {
		cfg.SubmitRateMax = 10
	}

	return cfg, nil
}
