package extract

import (
	"net/url"
	"strings"
)

// ResolveURL resolves href against base and returns an absolute http(s)
// URL, or "" for anchors, scripts, mail links and anything unparsable.
func ResolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	// Skip anchors
	if strings.HasPrefix(href, "#") {
		return ""
	}

	// Skip javascript: and mailto: links
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "data:") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := parsed
	if base != nil {
		resolved = base.ResolveReference(parsed)
	}

	// Only keep http/https URLs
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	return resolved.String()
}

// SourceDomain returns the host of rawURL without a leading "www."
func SourceDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	host := strings.ToLower(parsed.Hostname())
	return strings.TrimPrefix(host, "www.")
}

// DedupeURLs removes duplicate links, keeping first occurrence order
func DedupeURLs(urls []string) []string {
	seen := make(map[string]bool)
	var unique []string

	for _, u := range urls {
		if u != "" && !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}

	return unique
}
