package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"marketdigest/internal/model"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	runsLastKey   = "marketdigest:runs:last"
	runsKeyPrefix = "marketdigest:runs:"
	maxRunHistory = 50
)

// RunRepository keeps a small ledger of job runs in Redis: the last run per
// job in a hash and a capped history list per job.
type RunRepository struct {
	client *redis.Client
}

func NewRunRepository(client *redis.Client) *RunRepository {
	return &RunRepository{client: client}
}

func (r *RunRepository) RecordRun(ctx context.Context, run model.JobRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, runsLastKey, run.Job, data)
	pipe.LPush(ctx, runsKeyPrefix+run.Job, data)
	pipe.LTrim(ctx, runsKeyPrefix+run.Job, 0, maxRunHistory-1)
	_, err = pipe.Exec(ctx)
	return err
}

// GetLastRuns returns the most recent run of every job, sorted by job name.
func (r *RunRepository) GetLastRuns(ctx context.Context) ([]model.JobRun, error) {
	values, err := r.client.HGetAll(ctx, runsLastKey).Result()
	if err != nil {
		return nil, err
	}

	runs := make([]model.JobRun, 0, len(values))
	for job, raw := range values {
		var run model.JobRun
		if err := json.Unmarshal([]byte(raw), &run); err != nil {
			return nil, fmt.Errorf("decode run for %s: %w", job, err)
		}
		runs = append(runs, run)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Job < runs[j].Job })
	return runs, nil
}

// GetRuns returns up to limit runs of job, newest first.
func (r *RunRepository) GetRuns(ctx context.Context, job string, limit int) ([]model.JobRun, error) {
	if limit <= 0 || limit > maxRunHistory {
		limit = maxRunHistory
	}

	values, err := r.client.LRange(ctx, runsKeyPrefix+job, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	runs := make([]model.JobRun, 0, len(values))
	for _, raw := range values {
		var run model.JobRun
		if err := json.Unmarshal([]byte(raw), &run); err != nil {
			return nil, fmt.Errorf("decode run for %s: %w", job, err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}
