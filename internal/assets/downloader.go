// Package assets implements the narrow contract the binary-asset
// collaborators need: fetch one URL and write the raw bytes to a
// destination path when, and only when, the upstream answers 200.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tgcrawl/tgcrawl/internal/storage"
)

// Downloader fetches collaborator-produced artifacts (client archives,
// extraction tools) without the snapshot pipeline's retry machinery.
type Downloader struct {
	client *http.Client
	store  storage.Provider
	logger *zap.Logger
}

// New builds a Downloader writing through the given store.
func New(timeout time.Duration, store storage.Provider, logger *zap.Logger) *Downloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Downloader{
		client: &http.Client{Timeout: timeout},
		store:  store,
		logger: logger,
	}
}

// Download performs one GET and saves the body at objectName if the
// status is 200. Any other status is a silent no-op, matching the
// collaborator contract: missing releases are not an error.
func (d *Downloader) Download(ctx context.Context, url, objectName string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", url, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Debug("Skipping artifact download",
			zap.String("url", url),
			zap.Int("status", resp.StatusCode),
		)
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s: %w", url, err)
	}
	if err := d.store.Save(ctx, objectName, body); err != nil {
		return fmt.Errorf("save artifact %s: %w", objectName, err)
	}
	return nil
}
