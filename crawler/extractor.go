package crawler

import (
	"context"
	"errors"
	"fmt"

	"newscrawl/file"
	"newscrawl/news"
	"newscrawl/text"

	"go.uber.org/zap"
)

// Extractor turns a result handle into a news.Record.
type Extractor struct {
	images *file.ImageStore
	logger *zap.Logger
}

func NewExtractor(images *file.ImageStore, logger *zap.Logger) *Extractor {
	return &Extractor{
		images: images,
		logger: logger,
	}
}

// Extract reads one result. Stale text nodes become empty strings and a
// missing or stale thumbnail leaves the image fields empty; any other
// failure is returned and the record should be skipped.
func (e *Extractor) Extract(ctx context.Context, r Result, phrase string) (news.Record, error) {
	date, err := e.fieldText(ctx, r, FieldDate)
	if err != nil {
		return news.Record{}, err
	}

	imageName, imagePath, err := e.saveImage(ctx, r)
	if err != nil {
		return news.Record{}, err
	}

	title, err := e.fieldText(ctx, r, FieldTitle)
	if err != nil {
		return news.Record{}, err
	}
	description, err := e.fieldText(ctx, r, FieldDescription)
	if err != nil {
		return news.Record{}, err
	}

	count, err := text.CountPhrase(phrase, title, description)
	if err != nil {
		return news.Record{}, err
	}

	return news.Record{
		Title:         title,
		Date:          date,
		Description:   description,
		PhraseCount:   count,
		MentionsMoney: text.MentionsMoney(title, description),
		ImageName:     imageName,
		ImagePath:     imagePath,
	}, nil
}

func (e *Extractor) fieldText(ctx context.Context, r Result, field Field) (string, error) {
	s, err := r.Text(ctx, field)
	if errors.Is(err, ErrStale) {
		GetContextLogger(ctx, e.logger).Debug("stale text node", zap.Stringer("field", field))
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", field, err)
	}
	return s, nil
}

func (e *Extractor) saveImage(ctx context.Context, r Result) (string, string, error) {
	logger := GetContextLogger(ctx, e.logger)

	src, data, err := r.Image(ctx)
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrStale) {
		logger.Debug("no thumbnail", zap.Error(err))
		return "", "", nil
	}
	if err != nil {
		return "", "", fmt.Errorf("capture thumbnail: %w", err)
	}

	name, err := file.ImageName(src)
	if errors.Is(err, file.ErrNoImageName) {
		logger.Debug("thumbnail source has no file name", zap.String("src", src))
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}

	path, err := e.images.Save(name, data)
	if err != nil {
		return "", "", err
	}
	return name, path, nil
}
