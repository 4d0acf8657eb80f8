package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/aniladanir/waitlist-sms-service/internal/service"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	defaultHttpPort        = 6060
	defaultRateLimitWindow = time.Minute
	defaultRateLimitMax    = 5
)

type Config struct {
	HttpPort           int           `json:"http_port"`
	DbConnString       string        `json:"db_conn_string"`
	RedisAddr          string        `json:"redis_addr"`
	SenderID           string        `json:"sender_id"`
	SmsMaxRetry        *int          `json:"sms_max_retry"`
	SmsRetryDelayStr   string        `json:"sms_retry_delay"`
	SmsRetryDelay      time.Duration `json:"-"`
	SmsPacingDelayStr  string        `json:"sms_pacing_delay"`
	SmsPacingDelay     time.Duration `json:"-"`
	OpenAIModel        string        `json:"openai_model"`
	StaticDir          string        `json:"static_dir"`
	PublicBaseURL      string        `json:"public_base_url"`
	ValidateWebhook    bool          `json:"validate_webhook"`
	RateLimitWindowStr string        `json:"rate_limit_window"`
	RateLimitWindow    time.Duration `json:"-"`
	RateLimitMax       int           `json:"rate_limit_max"`
	MinFillDurationStr string        `json:"min_fill_duration"`
	MinFillDuration    time.Duration `json:"-"`
}

// Secrets are read from the environment, never from the config file
type Secrets struct {
	TwilioAccountSID string `envconfig:"TWILIO_ACCOUNT_SID" required:"true"`
	TwilioAuthToken  string `envconfig:"TWILIO_AUTH_TOKEN" required:"true"`
	OpenAIAPIKey     string `envconfig:"OPENAI_API_KEY"`
}

// ReadConfigJson reads json formatted configuration from the given file
func ReadConfigJson(configFile string) (*Config, error) {
	content, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	cfg := new(Config)

	if err = json.Unmarshal(content, cfg); err != nil {
		return nil, err
	}

	if cfg.SenderID == "" {
		return nil, errors.New("sender_id is required")
	}
	if cfg.HttpPort == 0 {
		cfg.HttpPort = defaultHttpPort
	}
	if cfg.RateLimitMax == 0 {
		cfg.RateLimitMax = defaultRateLimitMax
	}
	if cfg.SmsMaxRetry == nil {
		maxRetry := service.DefaultMaxRetries
		cfg.SmsMaxRetry = &maxRetry
	}

	durations := []struct {
		key string
		raw string
		dst *time.Duration
		def time.Duration
	}{
		{"sms_retry_delay", cfg.SmsRetryDelayStr, &cfg.SmsRetryDelay, service.DefaultRetryDelay},
		{"sms_pacing_delay", cfg.SmsPacingDelayStr, &cfg.SmsPacingDelay, service.DefaultPacingDelay},
		{"rate_limit_window", cfg.RateLimitWindowStr, &cfg.RateLimitWindow, defaultRateLimitWindow},
		{"min_fill_duration", cfg.MinFillDurationStr, &cfg.MinFillDuration, service.DefaultMinFillDuration},
	}
	for _, d := range durations {
		if d.raw == "" {
			*d.dst = d.def
			continue
		}
		if *d.dst, err = time.ParseDuration(d.raw); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
	}

	return cfg, nil
}

// LoadSecrets loads envFile into the environment if it exists and decodes the secrets
func LoadSecrets(envFile string) (*Secrets, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	secrets := new(Secrets)
	if err := envconfig.Process("", secrets); err != nil {
		return nil, err
	}

	return secrets, nil
}
