package job

import (
	"context"
	"encoding/json"
	"fmt"
	"marketdigest/internal/metrics"
	"marketdigest/internal/model"
	"marketdigest/pkg/llm"
	"marketdigest/pkg/mail"
	"time"

	"github.com/shopspring/decimal"
)

const (
	digestPriceRows   = 10
	digestSummaryRows = 2
)

type PriceReader interface {
	GetLatestPrices(ctx context.Context, limit int) ([]model.PriceRecord, error)
}

type SummaryReader interface {
	GetLatestSummaries(ctx context.Context, limit int) ([]model.NewsSummary, error)
}

// DigestMailer turns the latest prices and summaries into one email.
type DigestMailer struct {
	prices    PriceReader
	summaries SummaryReader
	generator llm.Generator
	sender    mail.Sender
	from      mail.Address
	to        mail.Address
}

func NewDigestMailer(prices PriceReader, summaries SummaryReader, generator llm.Generator, sender mail.Sender, from, to mail.Address) *DigestMailer {
	return &DigestMailer{
		prices:    prices,
		summaries: summaries,
		generator: generator,
		sender:    sender,
		from:      from,
		to:        to,
	}
}

func (m *DigestMailer) Name() string { return "digest" }

func (m *DigestMailer) Run(ctx context.Context) error {
	logger := loggerFrom(ctx)

	prices, err := m.prices.GetLatestPrices(ctx, digestPriceRows)
	if err != nil {
		return fmt.Errorf("%w: price records: %w", ErrReadFailed, err)
	}
	summaries, err := m.summaries.GetLatestSummaries(ctx, digestSummaryRows)
	if err != nil {
		return fmt.Errorf("%w: news summaries: %w", ErrReadFailed, err)
	}
	logger.Info("loaded digest context", "prices", len(prices), "summaries", len(summaries))

	digestContext, err := DigestContext(prices, summaries)
	if err != nil {
		return err
	}

	text, err := m.generator.Generate(ctx, llm.DigestPrompt(digestContext), llm.DigestSampling)
	if err != nil {
		return fmt.Errorf("digest generation: %w", err)
	}

	subject, body := llm.ParseDigest(text)
	if subject == "" || body == "" {
		return ErrEmptyDigest
	}

	msg := mail.Message{
		From:    m.from,
		To:      m.to,
		Subject: subject,
		Text:    body,
		HTML:    mail.RenderHTML(body),
	}

	err = m.sender.Send(ctx, msg)
	metrics.RecordEmail(m.sender.Name(), err == nil)
	if err != nil {
		return fmt.Errorf("digest send: %w", err)
	}

	logger.Info("email sent", "provider", m.sender.Name(), "to", m.to.Email, "subject", subject)
	return nil
}

type priceEntry struct {
	ID         int64           `json:"id"`
	Price      decimal.Decimal `json:"price"`
	RecordedAt time.Time       `json:"recorded_at"`
}

type summaryEntry struct {
	ID          int64     `json:"id"`
	Category    string    `json:"category"`
	SummaryText string    `json:"summary_text"`
	RecordedAt  time.Time `json:"recorded_at"`
}

type digestData struct {
	BTCData  []priceEntry   `json:"btc_data"`
	NewsData []summaryEntry `json:"news_data"`
}

// DigestContext renders the rows as the JSON document handed to the model.
// Rows keep the order they were read in.
func DigestContext(prices []model.PriceRecord, summaries []model.NewsSummary) (string, error) {
	data := digestData{
		BTCData:  make([]priceEntry, 0, len(prices)),
		NewsData: make([]summaryEntry, 0, len(summaries)),
	}
	for _, p := range prices {
		data.BTCData = append(data.BTCData, priceEntry{ID: p.ID, Price: p.Price, RecordedAt: p.RecordedAt})
	}
	for _, s := range summaries {
		data.NewsData = append(data.NewsData, summaryEntry{
			ID:          s.ID,
			Category:    s.Category,
			SummaryText: s.SummaryText,
			RecordedAt:  s.RecordedAt,
		})
	}

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode digest context: %w", err)
	}
	return string(b), nil
}
