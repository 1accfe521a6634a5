package article

import "strings"

// NormalizeURL canonicalizes a link for dedupe and score aggregation:
// lowercase, scheme and "www." stripped, trailing slash stripped.
func NormalizeURL(link string) string {
	u := strings.ToLower(strings.TrimSpace(link))
	u = strings.TrimPrefix(u, "https://")
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "www.")
	return strings.TrimSuffix(u, "/")
}

// NormalizeTitle canonicalizes a title for fuzzy comparison: leading
// bracket tags like "[Research]" dropped, non-alphanumerics removed,
// lowercase.
func NormalizeTitle(title string) string {
	t := strings.TrimSpace(title)
	for strings.HasPrefix(t, "[") {
		end := strings.Index(t, "]")
		if end < 0 {
			break
		}
		t = strings.TrimSpace(t[end+1:])
	}
	var b strings.Builder
	for _, r := range strings.ToLower(t) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// titleTokens splits a title into lowercase word tokens for Jaccard overlap.
func titleTokens(title string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, ".,;:!?\"'()[]{}")
		if len(w) < 3 {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}
