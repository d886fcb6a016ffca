// Package job holds the three pipelines (price collection, news
// summarization, digest mailing) and the wrapper that runs them.
package job

import (
	"context"
	"errors"
	"log/slog"
	"marketdigest/internal/metrics"
	"marketdigest/internal/model"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNoResults marks a category whose search came back empty. The
	// category is skipped and the run still counts as a success.
	ErrNoResults = errors.New("no results")

	ErrEmptyDigest = errors.New("empty digest subject or body")
	ErrReadFailed  = errors.New("read failed")
)

const (
	priceTable   = "price_records"
	summaryTable = "news_summaries"
)

type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// RunRecorder stores the outcome of a run. RunRepository satisfies it.
type RunRecorder interface {
	RecordRun(ctx context.Context, run model.JobRun) error
}

type tableNamer interface {
	Table() string
}

// tableLabel names the table a store writes to, falling back when the store
// does not report one.
func tableLabel(store any, fallback string) string {
	if t, ok := store.(tableNamer); ok && t.Table() != "" {
		return t.Table()
	}
	return fallback
}

type loggerKey struct{}

func withLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// Execute runs j once with a fresh run id and returns its error. recorder
// may be nil.
func Execute(ctx context.Context, j Job, recorder RunRecorder) error {
	run := model.JobRun{
		Job:       j.Name(),
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	logger := slog.Default().With("job", run.Job, "run_id", run.RunID)
	logger.Info("job started")

	err := j.Run(withLogger(ctx, logger))

	run.FinishedAt = time.Now().UTC()
	run.Status = model.RunStatusSuccess
	if err != nil {
		run.Status = model.RunStatusFailed
		run.Error = err.Error()
		logger.Error("job failed", "duration", run.Duration().String(), "error", err)
	} else {
		logger.Info("job finished", "duration", run.Duration().String())
	}

	metrics.RecordJobRun(run.Job, run.Status, run.Duration())

	if recorder != nil {
		// the run context may already be cancelled
		recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if recErr := recorder.RecordRun(recordCtx, run); recErr != nil {
			logger.Warn("error recording run", "error", recErr)
		}
	}

	return err
}
