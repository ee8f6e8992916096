package crawler

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tgcrawl/tgcrawl/internal/storage"
)

// Engine orchestrates a snapshot batch: it reads a tracked-link list,
// deduplicates it, and drives every URL through the retry-wrapped
// fetch-classify-normalize-persist pipeline concurrently.
type Engine struct {
	cfg          Config
	fetcher      Fetcher
	store        storage.Provider
	hasher       Hasher
	clock        Clock
	translations *TranslationCollector
	logger       *zap.Logger
	runID        string
}

// NewEngine wires the pipeline together.
func NewEngine(
	cfg Config,
	fetcher Fetcher,
	store storage.Provider,
	hasher Hasher,
	clock Clock,
	logger *zap.Logger,
	runID string,
) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:          cfg,
		fetcher:      fetcher,
		store:        store,
		hasher:       hasher,
		clock:        clock,
		translations: NewTranslationCollector(fetcher, logger),
		logger:       logger.With(zap.String("run_id", runID)),
		runID:        runID,
	}
}

// CrawlPages snapshots the tracked site pages list.
func (e *Engine) CrawlPages(ctx context.Context) error {
	return e.crawlList(ctx, e.cfg.PagesList, e.cfg.SitesFolder)
}

// CrawlResources snapshots the tracked resources list.
func (e *Engine) CrawlResources(ctx context.Context) error {
	return e.crawlList(ctx, e.cfg.ResourcesList, e.cfg.ResourcesFolder)
}

// CrawlTranslations snapshots the tracked translation pages list.
func (e *Engine) CrawlTranslations(ctx context.Context) error {
	return e.crawlList(ctx, e.cfg.TranslationsList, e.cfg.TranslationsFolder)
}

// crawlList launches one retry-wrapped task per unique URL. The
// semaphore built into the group matches the transport's connection cap
// so regex and parsing work does not pile up behind thousands of
// blocked goroutines. Fatal errors cancel the batch; transient ones are
// consumed inside the per-URL loop and never reach the group.
func (e *Engine) crawlList(ctx context.Context, listPath, folder string) error {
	urls, err := readURLSet(listPath)
	if err != nil {
		return err
	}
	start := e.clock.Now()
	e.logger.Info("Crawling tracked links",
		zap.String("list", listPath),
		zap.Int("urls", len(urls)),
	)

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(e.cfg.ConnectionLimit)
	for url := range urls {
		url := url
		group.Go(func() error {
			return e.crawlURL(ctx, url, folder)
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	e.logger.Info("Finished tracked links",
		zap.String("list", listPath),
		zap.Duration("elapsed", e.clock.Now().Sub(start)),
	)
	return nil
}

// crawlURL is the retry driver: it re-attempts the same URL on every
// transient outcome with no backoff and no attempt cap, relying on
// eventual upstream recovery. Only success, skip, cancellation, or a
// fatal persistence error terminate the loop.
func (e *Engine) crawlURL(ctx context.Context, url, folder string) error {
	for {
		done, err := e.processOnce(ctx, url, folder)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		TotalRetries.Inc()
		e.logger.Warn("Transient error, retrying", zap.String("url", url))
	}
}

// processOnce runs one full attempt for the URL. It reports done=false
// when the attempt ended in a transient condition and must be repeated.
func (e *Engine) processOnce(ctx context.Context, url, folder string) (bool, error) {
	e.logger.Info("Process", zap.String("url", url))

	outcome, err := e.fetcher.Fetch(ctx, Request{URL: e.cfg.Protocol + url})
	if err != nil {
		return false, err
	}

	switch outcome.Kind {
	case OutcomeRetry:
		return false, nil
	case OutcomeSkipped:
		TotalSkips.Inc()
		if outcome.StatusCode != 302 {
			e.logger.Debug("Skip",
				zap.String("url", url),
				zap.Int("status", outcome.StatusCode),
				zap.ByteString("content", outcome.Body),
			)
		}
		return true, nil
	}

	segments := PathSegments(url)
	if len(segments) == 0 {
		e.logger.Debug("Skip, no usable path segments", zap.String("url", url))
		return true, nil
	}

	decision := Classify(url, outcome.ContentType)
	objectName := ResolvePath(folder, segments, ExtensionFor(decision, segments))

	content, done, err := e.renderContent(ctx, url, decision, outcome)
	if err != nil || !done {
		return done, err
	}

	if err := e.store.Save(ctx, objectName, []byte(content)); err != nil {
		return false, fmt.Errorf("save %s: %w", objectName, err)
	}
	TotalWrites.Inc()
	e.logger.Info("Write", zap.String("path", objectName))
	return true, nil
}

// renderContent produces the bytes to persist for a fetched URL
// according to the storage decision.
func (e *Engine) renderContent(ctx context.Context, url string, decision Decision, outcome Outcome) (string, bool, error) {
	switch decision {
	case StoreHashOnly:
		digest, err := e.hasher.Hash(outcome.Body)
		if err != nil {
			return "", false, fmt.Errorf("hash %s: %w", url, err)
		}
		return digest, true, nil
	case StoreTranslations:
		aggregate, err := e.translations.Collect(ctx, e.cfg.Protocol+url)
		if err != nil {
			return "", false, err
		}
		return Normalize(aggregate), true, nil
	default:
		return Normalize(string(outcome.Body)), true, nil
	}
}

// readURLSet loads a newline-delimited link list and deduplicates it.
// A missing or unreadable list is fatal: it means the environment is
// unusable, not that the network hiccuped.
func readURLSet(path string) (map[string]struct{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tracked links %s: %w", path, err)
	}
	urls := make(map[string]struct{})
	for _, line := range strings.Split(string(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		urls[line] = struct{}{}
	}
	return urls, nil
}
