package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceRecord struct {
	ID         int64
	Price      decimal.Decimal
	RecordedAt time.Time
}
