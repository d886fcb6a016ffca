// Package config loads process configuration from the environment, with an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendSupabase = "supabase"
)

type Config struct {
	Store    Store
	Price    Price
	News     News
	LLM      LLM
	Mail     Mail
	Schedule Schedule
	Log      Log

	RedisURL       string        `env:"REDIS_URL"`
	PushgatewayURL string        `env:"PUSHGATEWAY_URL"`
	APIPort        string        `env:"API_PORT,default=8080"`
	FrontendURL    string        `env:"FRONTEND_URL"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,default=30s"`
}

type Store struct {
	Backend      string `env:"STORE_BACKEND,default=postgres"`
	DatabaseURL  string `env:"DATABASE_URL"`
	SupabaseURL  string `env:"SUPABASE_URL"`
	SupabaseKey  string `env:"SUPABASE_KEY"`
	PriceTable   string `env:"PRICE_TABLE,default=price_records"`
	SummaryTable string `env:"SUMMARY_TABLE,default=news_summaries"`
}

type Price struct {
	BaseURL  string `env:"COINGECKO_BASE_URL,default=https://api.coingecko.com"`
	APIKey   string `env:"COINGECKO_API_KEY"`
	Asset    string `env:"PRICE_ASSET,default=bitcoin"`
	Currency string `env:"PRICE_CURRENCY,default=usd"`
}

type News struct {
	Provider           string `env:"NEWS_PROVIDER,default=brave"`
	BraveAPIKey        string `env:"BRAVE_API_KEY"`
	FinnhubAPIKey      string `env:"FINNHUB_API_KEY"`
	AlphaVantageAPIKey string `env:"ALPHA_VANTAGE_API_KEY"`
	ResultCount        int    `env:"NEWS_RESULT_COUNT,default=10"`
}

type LLM struct {
	Provider        string `env:"LLM_PROVIDER,default=gemini"`
	GoogleAPIKey    string `env:"GOOGLE_API_KEY"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`
	Model           string `env:"LLM_MODEL"`
}

type Mail struct {
	Provider          string `env:"MAIL_PROVIDER,default=mailjet"`
	MailjetPublicKey  string `env:"MJ_APIKEY_PUBLIC"`
	MailjetPrivateKey string `env:"MJ_APIKEY_PRIVATE"`
	SendGridAPIKey    string `env:"SENDGRID_API_KEY"`
	From              string `env:"MAIL_FROM"`
	FromName          string `env:"MAIL_FROM_NAME,default=Market Digest"`
	To                string `env:"MAIL_TO"`
	ToName            string `env:"MAIL_TO_NAME"`
}

type Schedule struct {
	Price  string `env:"SCHEDULE_PRICE,default=*/15 * * * *"`
	News   string `env:"SCHEDULE_NEWS,default=0 */6 * * *"`
	Digest string `env:"SCHEDULE_DIGEST,default=0 8 * * *"`
}

type Log struct {
	Format string `env:"LOG_FORMAT,default=json"`
	Level  string `env:"LOG_LEVEL,default=info"`
}

// Load reads .env when present and decodes the environment into a Config.
func Load() (*Config, error) {
	godotenv.Load()

	var cfg Config
	// defaults count as set fields, so this only trips when every tag is empty
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the enum-like settings. Credentials are checked where the
// corresponding client is built so each binary only needs its own keys.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendPostgres, BackendSupabase:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}
	switch c.News.Provider {
	case "brave", "finnhub", "alphavantage":
	default:
		return fmt.Errorf("unknown NEWS_PROVIDER %q", c.News.Provider)
	}
	switch c.LLM.Provider {
	case "gemini", "openai", "anthropic":
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLM.Provider)
	}
	switch c.Mail.Provider {
	case "mailjet", "sendgrid":
	default:
		return fmt.Errorf("unknown MAIL_PROVIDER %q", c.Mail.Provider)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	}
	return nil
}
