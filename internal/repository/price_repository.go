package repository

import (
	"context"
	"database/sql"
	"fmt"
	"marketdigest/internal/model"

	"github.com/lib/pq"
)

const DefaultPriceTable = "price_records"

type PriceRepository struct {
	db    *sql.DB
	name  string
	table string
}

func NewPriceRepository(db *sql.DB, table string) *PriceRepository {
	if table == "" {
		table = DefaultPriceTable
	}
	return &PriceRepository{db: db, name: table, table: pq.QuoteIdentifier(table)}
}

// Table returns the unquoted table name.
func (r *PriceRepository) Table() string {
	return r.name
}

func (r *PriceRepository) SavePrice(ctx context.Context, record *model.PriceRecord) error {
	return r.db.QueryRowContext(ctx, fmt.Sprintf(`
		INSERT INTO %s(price, recorded_at)
		VALUES($1, $2)
		RETURNING id
	`, r.table), record.Price, record.RecordedAt).Scan(&record.ID)
}

func (r *PriceRepository) GetLatestPrices(ctx context.Context, limit int) ([]model.PriceRecord, error) {
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT id, price, recorded_at
		FROM %s
		ORDER BY recorded_at DESC, id DESC
		LIMIT $1
	`, r.table), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prices []model.PriceRecord
	for rows.Next() {
		var p model.PriceRecord
		if err := rows.Scan(&p.ID, &p.Price, &p.RecordedAt); err != nil {
			return nil, err
		}
		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return prices, nil
}

// Ping reports whether the database is reachable.
func (r *PriceRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
