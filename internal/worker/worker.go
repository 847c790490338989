package worker

import (
	"context"
	"net/url"
	"time"

	"blogd/internal/model"
	"blogd/internal/store"

	"github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

// Scraper defines the interface for downloading web pages.
// This allows us to mock the "Download" step in tests.
type Scraper interface {
	Scrape(url string, timeout time.Duration) (*readability.Article, error)
}

// DefaultScraper is the real implementation that uses the internet
type DefaultScraper struct{}

func (s *DefaultScraper) Scrape(url string, timeout time.Duration) (*readability.Article, error) {
	art, err := readability.FromURL(url, timeout)
	return &art, err
}

// Worker drains the import queue and turns scraped pages into posts.
type Worker struct {
	store   store.Store
	logger  *zap.Logger
	scraper Scraper
	timeout time.Duration
}

// NewWorker initializes the worker with the DefaultScraper
func NewWorker(store store.Store, logger *zap.Logger, timeout time.Duration) *Worker {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Worker{
		store:   store,
		logger:  logger,
		scraper: &DefaultScraper{},
		timeout: timeout,
	}
}

// Start runs the worker loop
func (w *Worker) Start(ctx context.Context) {
	w.logger.Info("Import worker started. Waiting for jobs...")

	for {
		// Wait for job (Blocking call to Redis)
		rawURL, err := w.store.PopImport(ctx)
		if err != nil {
			if ctx.Err() != nil {
				w.logger.Info("Import worker shutting down")
				return
			}
			w.logger.Error("Queue error", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		w.processJob(ctx, rawURL)
	}
}

func (w *Worker) processJob(ctx context.Context, rawURL string) {
	logger := w.logger.With(zap.String("url", rawURL))
	logger.Info("Import started")

	article, err := w.scraper.Scrape(rawURL, w.timeout)
	if err != nil {
		logger.Error("Scraping failed, dropping job", zap.Error(err))
		return
	}

	post := model.NewPost(importAuthor(rawURL, article), article.Title, article.Content)
	if err := post.Validate(); err != nil {
		logger.Error("Scraped page is not a usable post", zap.Error(err))
		return
	}

	if err := w.store.Create(ctx, &post); err != nil {
		logger.Error("Failed to save imported post", zap.Error(err))
		return
	}

	logger.Info("Import complete",
		zap.String("id", post.ID.String()),
		zap.String("title", post.Title))
}

// importAuthor prefers the page byline, falling back to the site host.
func importAuthor(rawURL string, article *readability.Article) string {
	if article.Byline != "" {
		return article.Byline
	}
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	return "web-import"
}
