package crawler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"newscrawl/news"

	"go.uber.org/zap"
)

// SearchController runs the search flow against a Site: overlay, phrase,
// sort, filters, date range and show-more pagination.
type SearchController struct {
	site   Site
	logger *zap.Logger
	now    func() time.Time
}

func NewSearchController(site Site, logger *zap.Logger) *SearchController {
	return &SearchController{
		site:   site,
		logger: logger,
		now:    time.Now,
	}
}

// Search applies criteria and returns every result left on the page once
// pagination is exhausted.
func (c *SearchController) Search(ctx context.Context, criteria news.Criteria) ([]Result, error) {
	logger := GetContextLogger(ctx, c.logger)

	if err := c.site.DismissOverlay(ctx); err != nil {
		if !absent(err) {
			return nil, fmt.Errorf("dismiss overlay: %w", err)
		}
		logger.Debug("no overlay to dismiss", zap.Error(err))
	}

	if err := c.site.OpenSearch(ctx); err != nil {
		return nil, fmt.Errorf("open search: %w", err)
	}
	if err := c.site.SubmitSearch(ctx, criteria.Phrase); err != nil {
		return nil, fmt.Errorf("submit search phrase: %w", err)
	}
	logger.Info("search submitted", zap.String("phrase", criteria.Phrase))

	if err := c.selectSort(ctx, logger, criteria.Sort); err != nil {
		return nil, fmt.Errorf("select sort option: %w", err)
	}
	if err := c.selectFilter(ctx, logger, FilterSection, criteria.Section); err != nil {
		return nil, fmt.Errorf("select section filter: %w", err)
	}
	if err := c.selectFilter(ctx, logger, FilterType, criteria.Type); err != nil {
		return nil, fmt.Errorf("select type filter: %w", err)
	}
	if err := c.setPeriod(ctx, logger, criteria.Period); err != nil {
		return nil, fmt.Errorf("set date range: %w", err)
	}

	clicks, err := c.showAll(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("show more results: %w", err)
	}

	results, err := c.site.Results(ctx)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	logger.Info("search results collected",
		zap.Int("results", len(results)),
		zap.Int("show_more_clicks", clicks))
	return results, nil
}

func (c *SearchController) selectSort(ctx context.Context, logger *zap.Logger, sort news.SortOption) error {
	if sort == "" {
		return nil
	}

	options, err := c.site.SortOptions(ctx)
	if err != nil {
		return err
	}
	for _, opt := range options {
		if opt.Value == string(sort) {
			logger.Debug("choosing sort option", zap.String("value", opt.Value))
			return opt.Choose(ctx)
		}
	}
	logger.Warn("sort option not offered by the site", zap.String("sort", string(sort)))
	return nil
}

// selectFilter clicks every option whose label contains want. Labels carry
// an article count suffix, so an exact match would never succeed.
func (c *SearchController) selectFilter(ctx context.Context, logger *zap.Logger, kind FilterKind, want string) error {
	if want == "" {
		return nil
	}

	options, err := c.site.FilterOptions(ctx, kind)
	if err != nil {
		return err
	}

	matched := 0
	for _, opt := range options {
		if !strings.Contains(opt.Label, want) {
			continue
		}
		if err := opt.Choose(ctx); err != nil {
			return fmt.Errorf("choose %q: %w", opt.Label, err)
		}
		matched++
	}

	if matched == 0 {
		logger.Warn("no filter option matched",
			zap.Stringer("filter", kind),
			zap.String("want", want))
	}
	return nil
}

func (c *SearchController) setPeriod(ctx context.Context, logger *zap.Logger, period string) error {
	r, ok := DateRangeFor(period, c.now())
	if !ok {
		logger.Debug("no date filter", zap.String("period", period))
		return nil
	}

	logger.Debug("setting date range",
		zap.String("start", r.Start),
		zap.String("end", r.End))
	return c.site.SetDateRange(ctx, r)
}

// showAll clicks "show more" until the control disappears. A missing,
// stale or unclickable control ends pagination; it is not retried.
func (c *SearchController) showAll(ctx context.Context, logger *zap.Logger) (int, error) {
	clicks := 0
	for {
		more, err := c.site.ShowMore(ctx)
		if err != nil {
			if absent(err) {
				logger.Debug("pagination stopped", zap.Int("clicks", clicks), zap.Error(err))
				return clicks, nil
			}
			return clicks, err
		}
		if !more {
			return clicks, nil
		}
		clicks++
	}
}
