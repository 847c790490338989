package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"blogd/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-shiori/go-readability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockScraper struct {
	MockTitle   string
	MockContent string
	MockByline  string
	ShouldFail  bool
}

// Scrape simulates article scraping
func (m *MockScraper) Scrape(url string, timeout time.Duration) (*readability.Article, error) {
	if m.ShouldFail {
		return nil, fmt.Errorf("simulated 404 error")
	}
	return &readability.Article{
		Title:   m.MockTitle,
		Content: m.MockContent,
		Byline:  m.MockByline,
	}, nil
}

// TestWorker_ProcessJob tests that the worker turns a queued URL into
// a persisted post.
func TestWorker_ProcessJob(t *testing.T) {
	// Spin up fake Redis
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	// Real store wired to fake Redis + temp Badger
	st, err := store.NewHybridStore(mr.Addr(), t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	// Worker with mocked scraper (no network, no flakiness)
	logger := zap.NewNop()
	w := NewWorker(st, logger, 0)
	w.scraper = &MockScraper{
		MockTitle:   "Mocked Title",
		MockContent: "<p>This is fake content</p>",
		MockByline:  "Jane Writer",
	}

	// Queue a job
	err = st.PushImport(context.Background(), "http://fake-url.com/piece")
	require.NoError(t, err)

	// Run worker asynchronously
	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	// Give it time to process exactly one job
	time.Sleep(100 * time.Millisecond)
	cancel()

	// Verify a post was created from the scrape result
	posts, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)

	assert.Equal(t, "Mocked Title", posts[0].Title)
	assert.Equal(t, "<p>This is fake content</p>", posts[0].Content)
	assert.Equal(t, "Jane Writer", posts[0].Author)
}

// TestWorker_FallbackAuthor tests that a page without a byline gets the
// site hostname as author.
func TestWorker_FallbackAuthor(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	st, err := store.NewHybridStore(mr.Addr(), t.TempDir())
	require.NoError(t, err)
	defer st.Close()

	w := NewWorker(st, zap.NewNop(), 0)
	w.scraper = &MockScraper{
		MockTitle:   "Anonymous Piece",
		MockContent: "<p>body</p>",
	}

	require.NoError(t, st.PushImport(context.Background(), "http://example.org/anon"))

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)
	cancel()

	posts, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "example.org", posts[0].Author)
}

// TestWorker_HandlesScrapeFailure tests that a scraping failure drops
// the job without persisting anything.
func TestWorker_HandlesScrapeFailure(t *testing.T) {
	mr, _ := miniredis.Run()
	defer mr.Close()
	st, _ := store.NewHybridStore(mr.Addr(), t.TempDir())
	defer st.Close()

	// Setup Worker with a BROKEN Scraper
	logger := zap.NewNop()
	w := NewWorker(st, logger, 0)
	w.scraper = &MockScraper{
		ShouldFail: true, // This will cause Scrape() to error
	}

	require.NoError(t, st.PushImport(context.Background(), "http://bad-url.com"))

	// Run Worker briefly
	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	time.Sleep(100 * time.Millisecond)
	cancel()

	// Nothing was persisted
	posts, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, posts)
}
