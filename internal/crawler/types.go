package crawler

// OutcomeKind classifies the result of a single fetch attempt.
type OutcomeKind int

// Fetch attempt results. Retry outcomes are recovered locally by the
// retry loop and never surface to the caller.
const (
	// OutcomeFetched means the body was retrieved (status 200 or 304).
	OutcomeFetched OutcomeKind = iota
	// OutcomeSkipped means there is nothing to persist for this URL.
	OutcomeSkipped
	// OutcomeRetry means a transient condition (5xx or transport error).
	OutcomeRetry
)

// String returns a short label for logging.
func (k OutcomeKind) String() string {
	switch k {
	case OutcomeFetched:
		return "fetched"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeRetry:
		return "retry"
	default:
		return "unknown"
	}
}

// Request captures everything needed for one fetch attempt.
// A nil Form means GET; a non-nil Form is sent as a POST form body.
type Request struct {
	URL     string
	Form    map[string]string
	Headers map[string]string
}

// Outcome is the classified result of one fetch attempt. It is consumed
// immediately by the retry loop and never persisted.
type Outcome struct {
	Kind        OutcomeKind
	StatusCode  int
	ContentType string
	Body        []byte
	Reason      string
}

// Decision tells the pipeline how a fetched body must be stored.
type Decision int

// Storage decisions produced by the classifier.
const (
	// StoreText persists the normalized UTF-8 body.
	StoreText Decision = iota
	// StoreHashOnly persists a hex digest of the raw bytes instead of
	// the bytes themselves.
	StoreHashOnly
	// StoreTranslations routes the URL through the paginated collector
	// and persists the aggregated record set as JSON.
	StoreTranslations
)

// TranslationValues holds the singular and, when present, plural value
// of one translation key. Values keep their inner HTML verbatim.
type TranslationValues struct {
	Singular string `json:"singular"`
	Plural   string `json:"plural,omitempty"`
}

// TranslationRecord is one row of the paginated translations listing.
type TranslationRecord struct {
	URL        string            `json:"url"`
	PhotoURL   *string           `json:"photo_url"`
	HasBinding bool              `json:"has_binding"`
	Values     TranslationValues `json:"values"`
}
