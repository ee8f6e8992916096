package crawler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tgcrawl/tgcrawl/internal/hash/sha256"
	"github.com/tgcrawl/tgcrawl/internal/storage/memory"
)

// MockFetcher is a mock implementation of the Fetcher interface.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, req Request) (Outcome, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(Outcome), args.Error(1)
}

// fixedClock satisfies Clock for deterministic elapsed-time logging.
type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

func matchURL(url string) interface{} {
	return mock.MatchedBy(func(req Request) bool {
		return req.Form == nil && req.URL == url
	})
}

func writeList(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracked_links.txt")
	content := ""
	for _, line := range lines {
		content += line + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testConfig(listPath string) Config {
	return Config{
		Protocol:        "https://",
		RequestTimeout:  10 * time.Second,
		ConnectionLimit: 4,
		PagesList:       listPath,
		OutputDir:       "unused",
		SitesFolder:     "web",
		Mode:            ModeWeb,
	}
}

func newTestEngine(cfg Config, fetcher Fetcher, store *memory.Store) *Engine {
	return NewEngine(cfg, fetcher, store, sha256.New(), fixedClock{at: time.Unix(0, 0)}, zap.NewNop(), "test-run")
}

func TestEngine_CrawlPages(t *testing.T) {
	t.Run("text page is normalized and written with html extension", func(t *testing.T) {
		fetcher := new(MockFetcher)
		store := memory.New()
		body := "<html>ok</html><!-- page generated in 9ms -->"
		fetcher.On("Fetch", mock.Anything, matchURL("https://example.com/a/b")).Return(Outcome{
			Kind:        OutcomeFetched,
			StatusCode:  200,
			ContentType: "text/html; charset=utf-8",
			Body:        []byte(body),
		}, nil).Once()

		engine := newTestEngine(testConfig(writeList(t, "example.com/a/b")), fetcher, store)
		require.NoError(t, engine.CrawlPages(context.Background()))

		got, ok := store.Get("web/example.com/a/b.html")
		require.True(t, ok)
		require.Equal(t, "<html>ok</html>", string(got))
		fetcher.AssertExpectations(t)
	})

	t.Run("binary asset is stored as its digest", func(t *testing.T) {
		fetcher := new(MockFetcher)
		store := memory.New()
		raw := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01}
		fetcher.On("Fetch", mock.Anything, matchURL("https://example.com/img.png")).Return(Outcome{
			Kind:        OutcomeFetched,
			StatusCode:  200,
			ContentType: "image/png",
			Body:        raw,
		}, nil).Once()

		engine := newTestEngine(testConfig(writeList(t, "example.com/img.png")), fetcher, store)
		require.NoError(t, engine.CrawlPages(context.Background()))

		got, ok := store.Get("web/example.com/img.png")
		require.True(t, ok)
		require.Equal(t, sha256.Sum(raw), string(got))
		require.Len(t, string(got), 64)
		require.NotEqual(t, raw, got)
	})

	t.Run("retry driver converges after transient failures", func(t *testing.T) {
		fetcher := new(MockFetcher)
		store := memory.New()
		fetcher.On("Fetch", mock.Anything, matchURL("https://example.com/flaky")).
			Return(Outcome{Kind: OutcomeRetry, Reason: "status 503"}, nil).Twice()
		fetcher.On("Fetch", mock.Anything, matchURL("https://example.com/flaky")).Return(Outcome{
			Kind:        OutcomeFetched,
			StatusCode:  200,
			ContentType: "text/html",
			Body:        []byte("recovered"),
		}, nil).Once()

		engine := newTestEngine(testConfig(writeList(t, "example.com/flaky")), fetcher, store)
		require.NoError(t, engine.CrawlPages(context.Background()))

		fetcher.AssertNumberOfCalls(t, "Fetch", 3)
		got, ok := store.Get("web/example.com/flaky.html")
		require.True(t, ok)
		require.Equal(t, "recovered", string(got))
	})

	t.Run("duplicate list entries fetch once", func(t *testing.T) {
		fetcher := new(MockFetcher)
		store := memory.New()
		fetcher.On("Fetch", mock.Anything, matchURL("https://example.com/dup")).Return(Outcome{
			Kind:        OutcomeFetched,
			StatusCode:  200,
			ContentType: "text/html",
			Body:        []byte("once"),
		}, nil).Once()

		list := writeList(t, "example.com/dup", "example.com/dup", "example.com/dup")
		engine := newTestEngine(testConfig(list), fetcher, store)
		require.NoError(t, engine.CrawlPages(context.Background()))

		fetcher.AssertNumberOfCalls(t, "Fetch", 1)
		require.Equal(t, 1, store.Len())
	})

	t.Run("skip outcome persists nothing", func(t *testing.T) {
		fetcher := new(MockFetcher)
		store := memory.New()
		fetcher.On("Fetch", mock.Anything, matchURL("https://example.com/gone")).
			Return(Outcome{Kind: OutcomeSkipped, StatusCode: 404, Reason: "status 404"}, nil).Once()

		engine := newTestEngine(testConfig(writeList(t, "example.com/gone")), fetcher, store)
		require.NoError(t, engine.CrawlPages(context.Background()))

		require.Equal(t, 0, store.Len())
	})

	t.Run("idempotent across runs with identical upstream", func(t *testing.T) {
		body := []byte(`page ?hash=ab12cd <!-- page generated in 3ms -->`)
		run := func() map[string][]byte {
			fetcher := new(MockFetcher)
			store := memory.New()
			fetcher.On("Fetch", mock.Anything, mock.Anything).Return(Outcome{
				Kind:        OutcomeFetched,
				StatusCode:  200,
				ContentType: "text/html",
				Body:        append([]byte(nil), body...),
			}, nil)
			engine := newTestEngine(testConfig(writeList(t, "example.com/page")), fetcher, store)
			require.NoError(t, engine.CrawlPages(context.Background()))
			return store.Objects()
		}

		require.Equal(t, run(), run())
	})

	t.Run("304 counts as fetched", func(t *testing.T) {
		fetcher := new(MockFetcher)
		store := memory.New()
		fetcher.On("Fetch", mock.Anything, matchURL("https://example.com/cached")).Return(Outcome{
			Kind:        OutcomeFetched,
			StatusCode:  304,
			ContentType: "text/html",
			Body:        []byte("cached body"),
		}, nil).Once()

		engine := newTestEngine(testConfig(writeList(t, "example.com/cached")), fetcher, store)
		require.NoError(t, engine.CrawlPages(context.Background()))

		_, ok := store.Get("web/example.com/cached.html")
		require.True(t, ok)
	})

	t.Run("missing list file is fatal", func(t *testing.T) {
		engine := newTestEngine(testConfig("does/not/exist.txt"), new(MockFetcher), memory.New())
		require.Error(t, engine.CrawlPages(context.Background()))
	})

	t.Run("blank lines are ignored", func(t *testing.T) {
		fetcher := new(MockFetcher)
		store := memory.New()
		fetcher.On("Fetch", mock.Anything, matchURL("https://example.com/only")).Return(Outcome{
			Kind:        OutcomeFetched,
			StatusCode:  200,
			ContentType: "text/html",
			Body:        []byte("x"),
		}, nil).Once()

		engine := newTestEngine(testConfig(writeList(t, "", "example.com/only", "", "")), fetcher, store)
		require.NoError(t, engine.CrawlPages(context.Background()))
		fetcher.AssertNumberOfCalls(t, "Fetch", 1)
	})
}

func TestEngine_CrawlTranslations(t *testing.T) {
	t.Run("category listing routes through the paginated collector", func(t *testing.T) {
		fetcher := new(MockFetcher)
		store := memory.New()

		url := "translations.example.org/en/android/groups_and_channels/"
		fetcher.On("Fetch", mock.Anything, matchURL("https://"+url)).Return(Outcome{
			Kind:        OutcomeFetched,
			StatusCode:  200,
			ContentType: "text/html",
			Body:        []byte("<html>listing shell</html>"),
		}, nil).Once()
		fetcher.On("Fetch", mock.Anything, matchOffset("0")).Return(Outcome{
			Kind:       OutcomeFetched,
			StatusCode: 200,
			Body:       envelope(t, translationRow("Key", "/en/k", "", "v", "", false)),
		}, nil).Once()
		fetcher.On("Fetch", mock.Anything, matchOffset("200")).Return(Outcome{
			Kind:       OutcomeFetched,
			StatusCode: 200,
			Body:       []byte(`{"more_html":""}`),
		}, nil).Once()

		cfg := testConfig("")
		cfg.TranslationsList = writeList(t, url)
		cfg.TranslationsFolder = "web_tr"
		engine := newTestEngine(cfg, fetcher, store)
		require.NoError(t, engine.CrawlTranslations(context.Background()))

		got, ok := store.Get("web_tr/translations.example.org/en/android/groups_and_channels.json")
		require.True(t, ok)
		require.Contains(t, string(got), `"Key"`)
		fetcher.AssertExpectations(t)
	})
}
