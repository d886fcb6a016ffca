package handler

import (
	"marketdigest/internal/model"
	"time"
)

type PriceResponse struct {
	ID         int64  `json:"id"`
	Price      string `json:"price"`
	RecordedAt string `json:"recorded_at"`
}

type PricesResponse struct {
	Prices []PriceResponse `json:"prices"`
	Limit  int             `json:"limit"`
}

type SummaryResponse struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	SummaryText string `json:"summary_text"`
	RecordedAt  string `json:"recorded_at"`
}

type SummariesResponse struct {
	Summaries []SummaryResponse `json:"summaries"`
	Category  string            `json:"category,omitempty"`
	Limit     int               `json:"limit"`
}

type RunResponse struct {
	Job        string  `json:"job"`
	RunID      string  `json:"run_id"`
	Status     string  `json:"status"`
	Error      string  `json:"error,omitempty"`
	StartedAt  string  `json:"started_at"`
	FinishedAt string  `json:"finished_at"`
	DurationMS float64 `json:"duration_ms"`
}

func toPriceResponse(p model.PriceRecord) PriceResponse {
	return PriceResponse{
		ID:         p.ID,
		Price:      p.Price.String(),
		RecordedAt: p.RecordedAt.Format(time.RFC3339),
	}
}

func toSummaryResponse(s model.NewsSummary) SummaryResponse {
	return SummaryResponse{
		ID:          s.ID,
		Category:    s.Category,
		SummaryText: s.SummaryText,
		RecordedAt:  s.RecordedAt.Format(time.RFC3339),
	}
}

func toRunResponse(r model.JobRun) RunResponse {
	return RunResponse{
		Job:        r.Job,
		RunID:      r.RunID,
		Status:     r.Status,
		Error:      r.Error,
		StartedAt:  r.StartedAt.Format(time.RFC3339),
		FinishedAt: r.FinishedAt.Format(time.RFC3339),
		DurationMS: float64(r.Duration().Microseconds()) / 1000,
	}
}
