package crawler

import (
	"path"
	"strings"
	"unicode"
)

// PathSegments splits a URL on '/' and drops segments that are empty or
// composed solely of punctuation and whitespace, so trailing slashes and
// decorative separators never produce directory entries. A '.' is legal
// because it carries extension information.
func PathSegments(url string) []string {
	parts := strings.Split(url, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if !illegalSegment(part) {
			segments = append(segments, part)
		}
	}
	return segments
}

func illegalSegment(segment string) bool {
	if segment == "" {
		return true
	}
	for _, r := range segment {
		if r == '.' {
			return false
		}
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// ResolvePath joins the filtered segments under the given folder and
// appends the classifier extension. The result is a slash-separated
// object name for the storage provider. Two URLs that collide after
// filtering overwrite each other; last write wins (documented behavior,
// the tracked link sets are curated not to collide).
func ResolvePath(folder string, segments []string, ext string) string {
	parts := append([]string{folder}, segments...)
	return path.Join(parts...) + ext
}
