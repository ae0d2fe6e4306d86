// Package utils holds small string/URL helpers shared by the CLI and the
// orchestrator's discovery step. Text-analysis helpers that overlapped
// with pkg/extractor/keywords were dropped; see DESIGN.md.
package utils

import (
	"regexp"
	"strings"
)

var urlRegex = regexp.MustCompile(`^https?://[a-zA-Z0-9\-._~:/?#[\]@!$&'()*+,;=]+$`)

// IsValidURL checks if a string is a well-formed http(s) URL.
func IsValidURL(url string) bool {
	return urlRegex.MatchString(url)
}

// GetDomainFromURL extracts the host (scheme, path, and port stripped)
// from a URL, lower-cased for consistent comparison.
func GetDomainFromURL(url string) string {
	if idx := strings.Index(url, "://"); idx > 0 {
		url = url[idx+3:]
	}
	if idx := strings.Index(url, "/"); idx > 0 {
		url = url[:idx]
	}
	if idx := strings.Index(url, ":"); idx > 0 {
		url = url[:idx]
	}
	return strings.ToLower(url)
}
