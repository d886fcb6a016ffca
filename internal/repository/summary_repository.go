package repository

import (
	"context"
	"database/sql"
	"fmt"
	"marketdigest/internal/model"

	"github.com/lib/pq"
)

const DefaultSummaryTable = "news_summaries"

type SummaryRepository struct {
	db    *sql.DB
	name  string
	table string
}

func NewSummaryRepository(db *sql.DB, table string) *SummaryRepository {
	if table == "" {
		table = DefaultSummaryTable
	}
	return &SummaryRepository{db: db, name: table, table: pq.QuoteIdentifier(table)}
}

// Table returns the unquoted table name.
func (r *SummaryRepository) Table() string {
	return r.name
}

func (r *SummaryRepository) SaveSummary(ctx context.Context, summary *model.NewsSummary) error {
	return r.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s(category, summary_text, recorded_at)
		VALUES($1, $2, $3)
		RETURNING id
	`, r.table), summary.Category, summary.SummaryText, summary.RecordedAt).Scan(&summary.ID)
}

func (r *SummaryRepository) GetLatestSummaries(ctx context.Context, limit int) ([]model.NewsSummary, error) {
	return r.query(ctx, fmt.Sprintf(`
		SELECT id, category, summary_text, recorded_at
		FROM %s
		ORDER BY recorded_at DESC, id DESC
		LIMIT $1
	`, r.table), limit)
}

func (r *SummaryRepository) GetLatestSummariesByCategory(ctx context.Context, category string, limit int) ([]model.NewsSummary, error) {
	return r.query(ctx, fmt.Sprintf(`
		SELECT id, category, summary_text, recorded_at
		FROM %s
		WHERE category = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT $2
	`, r.table), category, limit)
}

func (r *SummaryRepository) query(ctx context.Context, query string, args ...any) ([]model.NewsSummary, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []model.NewsSummary
	for rows.Next() {
		var s model.NewsSummary
		if err := rows.Scan(&s.ID, &s.Category, &s.SummaryText, &s.RecordedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}
