package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"newscrawl/news"
)

var ErrInvalidSortOption = errors.New("invalid SORT_OPTION")

type Config struct {
	URL      string
	Criteria news.Criteria

	Headless        bool
	ChromePath      string
	ElementTimeout  time.Duration
	PaginationPause time.Duration

	OutputDir     string
	ImagesDir     string
	JournalPath   string
	SelectorsFile string
	LogLevel      string
}

// Load reads the configuration from the environment. Missing URL or phrase
// is not an error; check Ready before starting a run.
func Load() (*Config, error) {
	sort, err := news.ParseSortOption(getEnv("SORT_OPTION", ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSortOption, err)
	}

	headless, err := strconv.ParseBool(getEnv("HEADLESS", "true"))
	if err != nil {
		return nil, fmt.Errorf("HEADLESS: %w", err)
	}

	elementTimeout, err := getDuration("ELEMENT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	pause, err := getDuration("PAGINATION_PAUSE", time.Second)
	if err != nil {
		return nil, err
	}

	return &Config{
		URL: getEnv("URL", ""),
		Criteria: news.Criteria{
			Phrase:  getEnv("SEARCH_PHARSE", ""),
			Section: getEnv("FILTER_SECTION", ""),
			Type:    getEnv("FILTER_TYPE", ""),
			Period:  getEnv("FILTER_PERIOD_OPTION", ""),
			Sort:    sort,
		},
		Headless:        headless,
		ChromePath:      getEnv("CHROME_PATH", ""),
		ElementTimeout:  elementTimeout,
		PaginationPause: pause,
		OutputDir:       getEnv("OUTPUT_DIR", "output"),
		ImagesDir:       getEnv("IMAGES_DIR", "images"),
		JournalPath:     lookupEnv("JOURNAL_PATH", "output/journal.db"),
		SelectorsFile:   getEnv("SELECTORS_FILE", ""),
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}, nil
}

// Ready reports whether the two required settings are present.
func (c *Config) Ready() bool {
	return c.URL != "" && c.Criteria.Phrase != ""
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

// lookupEnv distinguishes an unset variable from one explicitly set empty.
func lookupEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
