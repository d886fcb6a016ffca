package job

import (
	"context"
	"errors"
	"fmt"
	"marketdigest/internal/metrics"
	"marketdigest/internal/model"
	"marketdigest/pkg/llm"
	"marketdigest/pkg/news"
	"time"
)

// Category is one topic the news collector searches and summarizes.
type Category struct {
	Key   string
	Query string
}

var DefaultCategories = []Category{
	{Key: model.CategoryCrypto, Query: "bitcoin cryptocurrency market price trends adoption news"},
	{Key: model.CategoryMacro, Query: "global financial markets economic trends central banks interest rates"},
}

const (
	defaultResultCount = 10
	defaultLanguage    = "en"
)

type SummaryWriter interface {
	SaveSummary(ctx context.Context, summary *model.NewsSummary) error
}

// NewsCollector searches each category, asks the model for a summary of the
// results and stores one summary per category.
type NewsCollector struct {
	searcher   news.Searcher
	generator  llm.Generator
	store      SummaryWriter
	categories []Category
	count      int
	language   string
	now        func() time.Time
}

func NewNewsCollector(searcher news.Searcher, generator llm.Generator, store SummaryWriter, count int) *NewsCollector {
	if count <= 0 {
		count = defaultResultCount
	}
	return &NewsCollector{
		searcher:   searcher,
		generator:  generator,
		store:      store,
		categories: DefaultCategories,
		count:      count,
		language:   defaultLanguage,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (c *NewsCollector) Name() string { return "news" }

// Run processes every category. A failing category does not stop the next
// one; the returned error joins the failures.
func (c *NewsCollector) Run(ctx context.Context) error {
	logger := loggerFrom(ctx)

	var errs []error
	for _, category := range c.categories {
		err := c.collect(ctx, category)
		switch {
		case errors.Is(err, ErrNoResults):
			logger.Info("category skipped, no results", "category", category.Key, "source", c.searcher.Name())
		case err != nil:
			logger.Error("error processing category", "category", category.Key, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", category.Key, err))
		default:
			logger.Info("category processed", "category", category.Key)
		}
	}
	return errors.Join(errs...)
}

func (c *NewsCollector) collect(ctx context.Context, category Category) error {
	results, err := c.searcher.Search(ctx, news.Query{
		Category: category.Key,
		Text:     category.Query,
		Count:    c.count,
		Language: c.language,
	})
	if err != nil {
		return fmt.Errorf("news search: %w", err)
	}
	if len(results) == 0 {
		return ErrNoResults
	}

	prompt, err := llm.NewsPrompt(category.Key, results)
	if err != nil {
		return err
	}

	text, err := c.generator.Generate(ctx, prompt, llm.NewsSampling)
	if err != nil {
		return fmt.Errorf("summary generation: %w", err)
	}

	summary := &model.NewsSummary{
		Category:    category.Key,
		SummaryText: text,
		RecordedAt:  c.now(),
	}
	if err := c.store.SaveSummary(ctx, summary); err != nil {
		return fmt.Errorf("summary save: %w", err)
	}
	metrics.RecordWrite(tableLabel(c.store, summaryTable))

	loggerFrom(ctx).Info("stored summary", "category", category.Key, "id", summary.ID, "results", len(results))
	return nil
}
