package crawler

import (
	"context"
	"fmt"
	"time"

	"newscrawl/news"
	"newscrawl/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordWriter persists the records of one run.
type RecordWriter interface {
	Write(records []news.Record) error
	Path() string
}

// RunJournal keeps a summary of each run.
type RunJournal interface {
	Record(entry storage.RunEntry) error
}

type Crawler struct {
	url       string
	driver    Driver
	extractor *Extractor
	writer    RecordWriter
	journal   RunJournal
	logger    *zap.Logger
	now       func() time.Time
}

// NewCrawler wires a run. journal may be nil.
func NewCrawler(
	url string,
	driver Driver,
	extractor *Extractor,
	writer RecordWriter,
	journal RunJournal,
	logger *zap.Logger,
) *Crawler {
	return &Crawler{
		url:       url,
		driver:    driver,
		extractor: extractor,
		writer:    writer,
		journal:   journal,
		logger:    logger,
		now:       time.Now,
	}
}

// Run opens a browser session, searches, extracts every result and writes
// the records. The session is closed on every exit path.
func (c *Crawler) Run(ctx context.Context, criteria news.Criteria) (err error) {
	ctx = WithRunID(ctx, uuid.NewString())
	logger := GetContextLogger(ctx, c.logger)

	entry := storage.RunEntry{
		ID:        GetRunID(ctx),
		URL:       c.url,
		Criteria:  criteria,
		StartedAt: c.now(),
	}
	defer func() {
		c.finish(logger, entry, err)
	}()

	logger.Info("run started", zap.String("url", c.url), zap.String("phrase", criteria.Phrase))

	site, err := c.driver.Open(ctx, c.url)
	if err != nil {
		return fmt.Errorf("open site: %w", err)
	}
	defer func() {
		if cerr := site.Close(); cerr != nil {
			logger.Warn("failed to close browser", zap.Error(cerr))
		}
	}()

	results, err := NewSearchController(site, c.logger).Search(ctx, criteria)
	if err != nil {
		return err
	}
	entry.ResultsFound = len(results)

	records := make([]news.Record, 0, len(results))
	for i, result := range results {
		record, err := c.extractor.Extract(ctx, result, criteria.Phrase)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("failed to extract news", zap.Int("index", i), zap.Error(err))
			entry.RecordsSkipped++
			continue
		}
		records = append(records, record)
	}

	if err := c.writer.Write(records); err != nil {
		return fmt.Errorf("write records: %w", err)
	}
	entry.RecordsWritten = len(records)
	entry.WorkbookPath = c.writer.Path()

	logger.Info("run finished",
		zap.Int("records", len(records)),
		zap.Int("skipped", entry.RecordsSkipped),
		zap.String("workbook", entry.WorkbookPath))
	return nil
}

func (c *Crawler) finish(logger *zap.Logger, entry storage.RunEntry, err error) {
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		entry.Error = err.Error()
	}
	if c.journal == nil {
		return
	}

	entry.FinishedAt = c.now()
	if jerr := c.journal.Record(entry); jerr != nil {
		logger.Warn("failed to record run", zap.Error(jerr))
	}
}
