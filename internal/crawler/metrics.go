package crawler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TotalRequests tracks the number of fetch attempts dispatched,
	// including retries of the same URL.
	TotalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_requests_total",
		Help: "The total number of fetch attempts sent.",
	})
	// TotalRetries tracks transient outcomes that re-entered the retry loop.
	TotalRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_retries_total",
		Help: "The total number of transient failures that were retried.",
	})
	// TotalSkips tracks URLs that terminated without anything to persist.
	TotalSkips = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_skips_total",
		Help: "The total number of URLs skipped due to their status code.",
	})
	// TotalWrites tracks snapshot files written to the output tree.
	TotalWrites = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_files_written_total",
		Help: "The total number of snapshot files written.",
	})
	// TotalTranslationPages tracks pages consumed by the paginated collector.
	TotalTranslationPages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "snapshot_translation_pages_total",
		Help: "The total number of translation listing pages fetched.",
	})
)
