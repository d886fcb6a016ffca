package repository

import (
	"marketdigest/internal/model"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestSummaryRepositorySaveSummary(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	summary := &model.NewsSummary{
		Category:    model.CategoryMacro,
		SummaryText: "Central banks held rates steady.",
		RecordedAt:  time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery(`INSERT INTO "news_summaries"\(category, summary_text, recorded_at\)`).
		WithArgs(summary.Category, summary.SummaryText, summary.RecordedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	repo := NewSummaryRepository(db, "")
	require.NoError(t, repo.SaveSummary(t.Context(), summary))
	require.Equal(t, int64(7), summary.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryRepositoryGetLatestSummaries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM "news_summaries"\s+ORDER BY recorded_at DESC, id DESC\s+LIMIT \$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "summary_text", "recorded_at"}).
			AddRow(int64(4), model.CategoryMacro, "macro text", now).
			AddRow(int64(3), model.CategoryCrypto, "crypto text", now))

	repo := NewSummaryRepository(db, "")
	summaries, err := repo.GetLatestSummaries(t.Context(), 2)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	require.Equal(t, model.CategoryMacro, summaries[0].Category)
	require.Equal(t, "crypto text", summaries[1].SummaryText)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryRepositoryGetLatestSummariesByCategory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE category = \$1\s+ORDER BY recorded_at DESC, id DESC\s+LIMIT \$2`).
		WithArgs(model.CategoryCrypto, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "summary_text", "recorded_at"}))

	repo := NewSummaryRepository(db, "")
	summaries, err := repo.GetLatestSummariesByCategory(t.Context(), model.CategoryCrypto, 5)
	require.NoError(t, err)
	require.Empty(t, summaries)
	require.NoError(t, mock.ExpectationsWereMet())
}
