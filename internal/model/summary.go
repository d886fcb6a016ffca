package model

import "time"

const (
	CategoryCrypto = "crypto"
	CategoryMacro  = "macro"
)

type NewsSummary struct {
	ID          int64
	Category    string
	SummaryText string
	RecordedAt  time.Time
}
