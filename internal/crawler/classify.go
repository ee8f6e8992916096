package crawler

import (
	"regexp"
	"strings"
)

// translationsCategoryPattern matches the category listing pages of the
// translations sub-site, which are paginated behind an AJAX endpoint
// instead of being served as plain documents.
var translationsCategoryPattern = regexp.MustCompile(`/en/[a-z_]+/[a-z_]+/$`)

// hashableContentTypes are binary/opaque payloads stored as digests.
// Change detection is the goal, not content inspection.
var hashableContentTypes = []string{
	"png",
	"jpeg",
	"x-icon",
	"gif",
	"mp4",
	"webm",
	"application/zip",
}

// classificationRule is one row of the decision table. Rows are
// evaluated in order; the first match wins.
type classificationRule struct {
	// name documents why the row exists.
	name     string
	matches  func(url, contentType string) bool
	decision Decision
}

// decisionTable encodes the storage decision. Upstream content-type
// headers are unreliable for this site, so rows layer URL-shape
// heuristics on top of the declared type. New quirks get new rows.
var decisionTable = []classificationRule{
	{
		name: "binary or opaque content type",
		matches: func(_, contentType string) bool {
			for _, hashable := range hashableContentTypes {
				if strings.Contains(contentType, hashable) {
					return true
				}
			}
			return false
		},
		decision: StoreHashOnly,
	},
	{
		// Media under /file/ is sometimes served with a text content
		// type depending on which upstream balancer answers.
		name: "mislabeled media file",
		matches: func(url, contentType string) bool {
			return strings.Contains(url, "/file/") && strings.Contains(contentType, "text")
		},
		decision: StoreHashOnly,
	},
	{
		name: "translations category listing",
		matches: func(url, _ string) bool {
			return translationsCategoryPattern.MatchString(url)
		},
		decision: StoreTranslations,
	},
}

// Classify maps a URL and its declared content type to a storage
// decision using the decision table. StoreText is the fallback.
func Classify(url, contentType string) Decision {
	for _, rule := range decisionTable {
		if rule.matches(url, contentType) {
			return rule.decision
		}
	}
	return StoreText
}

// ExtensionFor derives the output extension from the decision and the
// filtered URL segments. Pure domains and pages without an extension in
// the URL get .html; hash-only storage never carries an extension; the
// pagination route always serializes to JSON.
func ExtensionFor(decision Decision, segments []string) string {
	switch decision {
	case StoreHashOnly:
		return ""
	case StoreTranslations:
		return ".json"
	}
	if len(segments) == 0 {
		return ""
	}
	if len(segments) == 1 || !strings.Contains(segments[len(segments)-1], ".") {
		return ".html"
	}
	return ""
}
