package crawler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// translationsBaseURL prefixes the relative row links extracted from
// the paginated listing fragments.
const translationsBaseURL = "https://translations.telegram.org"

// translationsPageSize is the offset step the endpoint paginates by.
const translationsPageSize = 200

var (
	// Suggestion blocks are user-generated and change constantly, so they
	// are stripped before row extraction.
	suggestionPattern = regexp.MustCompile(`<div class="tr-value-suggestion">(.?)+</div>`)

	// backgroundImagePattern pulls the photo URL out of the row's inline
	// style attribute.
	backgroundImagePattern = regexp.MustCompile(`background-image:\s*url\('(.*?)'\)`)
)

// TranslationCollector aggregates the keyed record set of one
// translations category by walking its AJAX pagination until an empty
// page signals completion.
type TranslationCollector struct {
	fetcher Fetcher
	logger  *zap.Logger
}

// NewTranslationCollector builds a collector on top of the shared fetcher.
func NewTranslationCollector(fetcher Fetcher, logger *zap.Logger) *TranslationCollector {
	return &TranslationCollector{fetcher: fetcher, logger: logger}
}

// Collect POSTs increasing offsets (0, 200, 400, ...) to the category
// URL and accumulates rows keyed by translation key. A transient outcome
// re-requests the same offset, so accumulation stays idempotent: a
// re-delivered key simply overwrites itself. The aggregate is returned
// as indented JSON with keys sorted and non-ASCII preserved literally.
func (c *TranslationCollector) Collect(ctx context.Context, pageURL string) (string, error) {
	records := make(map[string]TranslationRecord)

	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("pagination canceled: %w", err)
		}
		c.logger.Info("Fetching translations page",
			zap.String("url", pageURL),
			zap.Int("offset", offset),
		)

		outcome, err := c.fetcher.Fetch(ctx, Request{
			URL: pageURL,
			Form: map[string]string{
				"offset": strconv.Itoa(offset),
				"more":   "1",
			},
			Headers: map[string]string{"X-Requested-With": "XMLHttpRequest"},
		})
		if err != nil {
			return "", err
		}

		switch outcome.Kind {
		case OutcomeRetry:
			// Same offset again; advancing only happens on success.
			TotalRetries.Inc()
			c.logger.Warn("Transient error, re-requesting offset",
				zap.String("url", pageURL),
				zap.Int("offset", offset),
				zap.String("reason", outcome.Reason),
			)
			continue
		case OutcomeSkipped:
			c.logger.Debug("Pagination terminated by status",
				zap.String("url", pageURL),
				zap.Int("offset", offset),
				zap.Int("status", outcome.StatusCode),
			)
			return encodeTranslationRecords(records)
		}

		TotalTranslationPages.Inc()

		var envelope struct {
			MoreHTML string `json:"more_html"`
		}
		if err := json.Unmarshal(outcome.Body, &envelope); err != nil {
			return "", fmt.Errorf("decode pagination envelope for %s: %w", pageURL, err)
		}
		if envelope.MoreHTML == "" {
			return encodeTranslationRecords(records)
		}

		fragment := suggestionPattern.ReplaceAllString(envelope.MoreHTML, "")
		if err := collectTranslationRows(fragment, records); err != nil {
			return "", fmt.Errorf("parse translation rows for %s: %w", pageURL, err)
		}

		offset += translationsPageSize
	}
}

// collectTranslationRows extracts rows from an HTML fragment into the
// record set. Row structure is identified by the listing's structural
// class markers.
func collectTranslationRows(fragment string, records map[string]TranslationRecord) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fmt.Errorf("parse fragment: %w", err)
	}

	doc.Find("div.tr-key-row-wrap").Each(func(_ int, row *goquery.Selection) {
		key := row.Find("div.tr-value-key").First().Text()
		if key == "" {
			return
		}

		href, _ := row.Find("div.tr-key-row").First().Attr("data-href")

		var photoURL *string
		if photo := row.Find("a.tr-value-photo").First(); photo.Length() > 0 {
			style, _ := photo.Attr("style")
			if m := backgroundImagePattern.FindStringSubmatch(style); m != nil {
				photoURL = &m[1]
			}
		}

		values := TranslationValues{}
		row.Find("span.value").Each(func(i int, value *goquery.Selection) {
			inner, err := value.Html()
			if err != nil {
				return
			}
			switch i {
			case 0:
				values.Singular = inner
			case 1:
				values.Plural = inner
			}
		})

		records[key] = TranslationRecord{
			URL:        translationsBaseURL + href,
			PhotoURL:   photoURL,
			HasBinding: row.Find("span.has-1binding.binding").Length() > 0,
			Values:     values,
		}
	})

	return nil
}

// encodeTranslationRecords serializes the record set deterministically:
// keys sorted, four-space indentation, HTML and non-ASCII characters
// kept literal so diffs stay readable.
func encodeTranslationRecords(records map[string]TranslationRecord) (string, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(records); err != nil {
		return "", fmt.Errorf("encode translation records: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
