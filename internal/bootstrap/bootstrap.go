// Package bootstrap builds the clients and stores the binaries share from a
// loaded config.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"marketdigest/db"
	"marketdigest/internal/config"
	"marketdigest/internal/job"
	"marketdigest/internal/metrics"
	"marketdigest/internal/model"
	"marketdigest/internal/repository"
	"marketdigest/pkg/coingecko"
	"marketdigest/pkg/llm"
	"marketdigest/pkg/mail"
	"marketdigest/pkg/news"
	"marketdigest/pkg/supabase"
	"net/http"
	"os"
	"strings"
	"time"
)

// SetupLogger installs the default slog logger.
func SetupLogger(cfg config.Log) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

type PriceStore interface {
	SavePrice(ctx context.Context, record *model.PriceRecord) error
	GetLatestPrices(ctx context.Context, limit int) ([]model.PriceRecord, error)
	Ping(ctx context.Context) error
}

type SummaryStore interface {
	SaveSummary(ctx context.Context, summary *model.NewsSummary) error
	GetLatestSummaries(ctx context.Context, limit int) ([]model.NewsSummary, error)
	GetLatestSummariesByCategory(ctx context.Context, category string, limit int) ([]model.NewsSummary, error)
}

type Stores struct {
	Prices    PriceStore
	Summaries SummaryStore
	close     func() error
}

func (s *Stores) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStores connects the configured backend.
func OpenStores(cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Backend {
	case config.BackendSupabase:
		client, err := supabase.New(cfg.Store.SupabaseURL, cfg.Store.SupabaseKey,
			supabase.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		if err != nil {
			return nil, fmt.Errorf("supabase: %w", err)
		}
		return &Stores{
			Prices:    repository.NewSupabasePriceRepository(client, cfg.Store.PriceTable),
			Summaries: repository.NewSupabaseSummaryRepository(client, cfg.Store.SummaryTable),
		}, nil

	default:
		conn, err := db.Connect(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &Stores{
			Prices:    repository.NewPriceRepository(conn, cfg.Store.PriceTable),
			Summaries: repository.NewSummaryRepository(conn, cfg.Store.SummaryTable),
			close:     conn.Close,
		}, nil
	}
}

// OpenRunLedger returns nil without error when REDIS_URL is unset.
func OpenRunLedger(ctx context.Context, cfg *config.Config) (*repository.RunRepository, func() error, error) {
	if cfg.RedisURL == "" {
		return nil, func() error { return nil }, nil
	}
	client, err := db.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("redis: %w", err)
	}
	return repository.NewRunRepository(client), client.Close, nil
}

func NewPriceSource(cfg *config.Config) (*coingecko.Client, error) {
	opts := []coingecko.Option{
		coingecko.WithBaseURL(cfg.Price.BaseURL),
		coingecko.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	}
	if cfg.Price.APIKey != "" {
		opts = append(opts, coingecko.WithAPIKey(cfg.Price.APIKey))
	}
	return coingecko.NewClient(opts...)
}

func NewSearcher(cfg *config.Config) (news.Searcher, error) {
	switch cfg.News.Provider {
	case "finnhub":
		if cfg.News.FinnhubAPIKey == "" {
			return nil, errors.New("FINNHUB_API_KEY is not set")
		}
		return news.NewFinnHubClient(cfg.News.FinnhubAPIKey), nil
	case "alphavantage":
		if cfg.News.AlphaVantageAPIKey == "" {
			return nil, errors.New("ALPHA_VANTAGE_API_KEY is not set")
		}
		return news.NewAlphaVantageClient(cfg.News.AlphaVantageAPIKey, cfg.HTTPTimeout), nil
	default:
		if cfg.News.BraveAPIKey == "" {
			return nil, errors.New("BRAVE_API_KEY is not set")
		}
		return news.NewBraveClient(cfg.News.BraveAPIKey, cfg.HTTPTimeout), nil
	}
}

// NewGenerator returns the configured model client and a function releasing
// its resources.
func NewGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, func() error, error) {
	noop := func() error { return nil }

	switch cfg.LLM.Provider {
	case "openai":
		if cfg.LLM.OpenAIAPIKey == "" {
			return nil, nil, errors.New("OPENAI_API_KEY is not set")
		}
		return llm.NewOpenAIClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.Model), noop, nil
	case "anthropic":
		if cfg.LLM.AnthropicAPIKey == "" {
			return nil, nil, errors.New("ANTHROPIC_API_KEY is not set")
		}
		return llm.NewAnthropicClient(cfg.LLM.AnthropicAPIKey, cfg.LLM.Model), noop, nil
	default:
		if cfg.LLM.GoogleAPIKey == "" {
			return nil, nil, errors.New("GOOGLE_API_KEY is not set")
		}
		client, err := llm.NewGeminiClient(ctx, cfg.LLM.GoogleAPIKey, cfg.LLM.Model)
		if err != nil {
			return nil, nil, err
		}
		return client, client.Close, nil
	}
}

func NewSender(cfg *config.Config) (mail.Sender, error) {
	switch cfg.Mail.Provider {
	case "sendgrid":
		if cfg.Mail.SendGridAPIKey == "" {
			return nil, errors.New("SENDGRID_API_KEY is not set")
		}
		return mail.NewSendGridClient(cfg.Mail.SendGridAPIKey), nil
	default:
		if cfg.Mail.MailjetPublicKey == "" || cfg.Mail.MailjetPrivateKey == "" {
			return nil, errors.New("MJ_APIKEY_PUBLIC and MJ_APIKEY_PRIVATE must be set")
		}
		return mail.NewMailjetClient(cfg.Mail.MailjetPublicKey, cfg.Mail.MailjetPrivateKey, cfg.HTTPTimeout), nil
	}
}

// MailAddresses returns the fixed sender and recipient of the digest.
func MailAddresses(cfg *config.Config) (from, to mail.Address, err error) {
	if cfg.Mail.From == "" || cfg.Mail.To == "" {
		return from, to, errors.New("MAIL_FROM and MAIL_TO must be set")
	}
	from = mail.Address{Email: cfg.Mail.From, Name: cfg.Mail.FromName}
	to = mail.Address{Email: cfg.Mail.To, Name: cfg.Mail.ToName}
	return from, to, nil
}

// PushMetrics sends the registry to the Pushgateway when one is configured.
// Failures are logged only.
func PushMetrics(cfg *config.Config, job string) {
	if cfg.PushgatewayURL == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := metrics.Push(ctx, cfg.PushgatewayURL, job); err != nil {
		slog.Warn("error pushing metrics", "gateway", cfg.PushgatewayURL, "error", err)
	}
}

// RunJob executes j once and then pushes metrics under pushName. recorder
// may be nil.
func RunJob(ctx context.Context, cfg *config.Config, j job.Job, recorder job.RunRecorder, pushName string) error {
	err := job.Execute(ctx, j, recorder)
	PushMetrics(cfg, pushName)
	return err
}
