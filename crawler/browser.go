package crawler

import (
	"context"
	"fmt"
	"time"

	"newscrawl/config"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const navigationTimeout = 60 * time.Second

// Browser launches Chrome through chromedp. Each Open starts a fresh
// browser process owned by the returned Site.
type Browser struct {
	logger          *zap.Logger
	selectors       config.Selectors
	elementTimeout  time.Duration
	paginationPause time.Duration
	ChromedpOptions []chromedp.ExecAllocatorOption
}

func NewBrowser(logger *zap.Logger, cfg *config.Config, selectors config.Selectors) *Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("start-maximized", true),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),

		chromedp.Flag("accept-language", "en-US,en;q=0.9"),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ChromePath))
	}

	return &Browser{
		logger:          logger,
		selectors:       selectors,
		elementTimeout:  cfg.ElementTimeout,
		paginationPause: cfg.PaginationPause,
		ChromedpOptions: opts,
	}
}

// Open starts the browser and navigates to url. The caller must Close the
// returned Site.
func (b *Browser) Open(ctx context.Context, url string) (Site, error) {
	logger := GetContextLogger(ctx, b.logger)

	// ================
	// Browser Context
	// ================
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, b.ChromedpOptions...)
	taskCtx, taskCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(logger.Sugar().Debugf),
		chromedp.WithErrorf(logger.Sugar().Debugf),
	)
	cancel := func() {
		taskCancel()
		allocCancel()
	}

	// The browser lives as long as the context of the first Run, so start it
	// on taskCtx before any timed action.
	if err := chromedp.Run(taskCtx); err != nil {
		cancel()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	// ================
	// Navigate
	// ================
	logger.Info("Navigating to site", zap.String("url", url))

	navCtx, navCancel := context.WithTimeout(taskCtx, navigationTimeout)
	defer navCancel()
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		var currentURL, title string
		stateCtx, stateCancel := context.WithTimeout(taskCtx, 5*time.Second)
		_ = chromedp.Run(stateCtx,
			chromedp.Location(&currentURL),
			chromedp.Title(&title),
		)
		stateCancel()
		logger.Error("Failed to navigate",
			zap.Error(err),
			zap.String("current_url", currentURL),
			zap.String("title", title))

		cancel()
		return nil, fmt.Errorf("navigation failed: %w", err)
	}

	return &chromeSite{
		ctx:     taskCtx,
		cancel:  cancel,
		sel:     b.selectors,
		timeout: b.elementTimeout,
		pause:   b.paginationPause,
		logger:  logger,
	}, nil
}

var _ Driver = (*Browser)(nil)
