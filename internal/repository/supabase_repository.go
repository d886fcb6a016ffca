package repository

import (
	"context"
	"fmt"
	"marketdigest/internal/model"
	"marketdigest/pkg/supabase"
	"time"

	"github.com/shopspring/decimal"
)

type priceRow struct {
	ID         int64           `json:"id,omitempty"`
	Price      decimal.Decimal `json:"price"`
	RecordedAt time.Time       `json:"recorded_at"`
}

type summaryRow struct {
	ID          int64     `json:"id,omitempty"`
	Category    string    `json:"category"`
	SummaryText string    `json:"summary_text"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// SupabasePriceRepository stores price records through the Supabase REST API.
type SupabasePriceRepository struct {
	client *supabase.Client
	table  string
}

func NewSupabasePriceRepository(client *supabase.Client, table string) *SupabasePriceRepository {
	if table == "" {
		table = DefaultPriceTable
	}
	return &SupabasePriceRepository{client: client, table: table}
}

func (r *SupabasePriceRepository) Table() string {
	return r.table
}

func (r *SupabasePriceRepository) SavePrice(ctx context.Context, record *model.PriceRecord) error {
	var inserted []priceRow
	err := r.client.From(r.table).Insert(ctx, priceRow{Price: record.Price, RecordedAt: record.RecordedAt}, &inserted)
	if err != nil {
		return err
	}
	if len(inserted) == 0 {
		return fmt.Errorf("insert into %s returned no rows", r.table)
	}
	record.ID = inserted[0].ID
	return nil
}

func (r *SupabasePriceRepository) GetLatestPrices(ctx context.Context, limit int) ([]model.PriceRecord, error) {
	var rows []priceRow
	err := r.client.From(r.table).
		Select("id,price,recorded_at").
		Order("recorded_at", true).
		Order("id", true).
		Limit(limit).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}

	prices := make([]model.PriceRecord, 0, len(rows))
	for _, row := range rows {
		prices = append(prices, model.PriceRecord{ID: row.ID, Price: row.Price, RecordedAt: row.RecordedAt})
	}
	return prices, nil
}

// Ping issues a one-row select to check the API is reachable.
func (r *SupabasePriceRepository) Ping(ctx context.Context) error {
	var rows []priceRow
	return r.client.From(r.table).Select("id").Limit(1).Execute(ctx, &rows)
}

// SupabaseSummaryRepository stores news summaries through the Supabase REST API.
type SupabaseSummaryRepository struct {
	client *supabase.Client
	table  string
}

func NewSupabaseSummaryRepository(client *supabase.Client, table string) *SupabaseSummaryRepository {
	if table == "" {
		table = DefaultSummaryTable
	}
	return &SupabaseSummaryRepository{client: client, table: table}
}

func (r *SupabaseSummaryRepository) Table() string {
	return r.table
}

func (r *SupabaseSummaryRepository) SaveSummary(ctx context.Context, summary *model.NewsSummary) error {
	row := summaryRow{
		Category:    summary.Category,
		SummaryText: summary.SummaryText,
		RecordedAt:  summary.RecordedAt,
	}

	var inserted []summaryRow
	if err := r.client.From(r.table).Insert(ctx, row, &inserted); err != nil {
		return err
	}
	if len(inserted) == 0 {
		return fmt.Errorf("insert into %s returned no rows", r.table)
	}
	summary.ID = inserted[0].ID
	return nil
}

func (r *SupabaseSummaryRepository) GetLatestSummaries(ctx context.Context, limit int) ([]model.NewsSummary, error) {
	return r.latest(ctx, r.client.From(r.table), limit)
}

func (r *SupabaseSummaryRepository) GetLatestSummariesByCategory(ctx context.Context, category string, limit int) ([]model.NewsSummary, error) {
	return r.latest(ctx, r.client.From(r.table).Eq("category", category), limit)
}

func (r *SupabaseSummaryRepository) latest(ctx context.Context, q *supabase.Query, limit int) ([]model.NewsSummary, error) {
	var rows []summaryRow
	err := q.Select("id,category,summary_text,recorded_at").
		Order("recorded_at", true).
		Order("id", true).
		Limit(limit).
		Execute(ctx, &rows)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.NewsSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, model.NewsSummary{
			ID:          row.ID,
			Category:    row.Category,
			SummaryText: row.SummaryText,
			RecordedAt:  row.RecordedAt,
		})
	}
	return summaries, nil
}
