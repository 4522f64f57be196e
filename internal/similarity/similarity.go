// Package similarity decides how alike two outlet names or websites are.
package similarity

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/net/publicsuffix"
)

// Duplicate thresholds. Single-candidate checks (insertion, discovery) use
// the stricter value; bulk pairwise scans use the looser one.
const (
	CandidateThreshold = 0.85
	ScanThreshold      = 0.80
)

var suffixes = []string{"show", "podcast", "news", "network", "media", "channel", "tv", "radio"}

// NormalizeName folds a display name into the key used for duplicate
// matching. It is idempotent: stacked suffixes are all stripped, so
// "Fox News Channel" becomes "fox" and "The Daily Show" becomes "daily".
func NormalizeName(name string) string {
	s := strings.ToLower(name)
	for {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "the ")
	for _, suf := range suffixes {
		if strings.HasSuffix(s, " "+suf) {
			s = strings.TrimSuffix(s, " "+suf)
			break
		}
	}
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// ExtractDomain returns the lowercase hostname of rawURL without a leading
// "www.". A missing scheme is treated as https. ok is false when no host can
// be parsed.
func ExtractDomain(rawURL string) (domain string, ok bool) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return "", false
	}
	if !hasScheme(raw) {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return "", false
	}
	return host, true
}

// hasScheme reports whether s starts with "scheme://". A "://" inside the
// path or query does not count.
func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	return i > 0 && !strings.ContainsAny(s[:i], "/?#")
}

// RegistrableDomain reduces a website to its eTLD+1 so that
// "edition.cnn.com" and "cnn.com" compare equal.
func RegistrableDomain(rawURL string) (string, bool) {
	host, ok := ExtractDomain(rawURL)
	if !ok {
		return "", false
	}
	reg, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host, true
	}
	return reg, true
}

// Similarity scores two strings on [0,1]. Equal strings (ignoring case)
// score 1; when one contains the other the score is the length ratio;
// otherwise it is one minus the normalized edit distance.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	if string(ra) == string(rb) {
		return 1.0
	}
	longer, shorter := ra, rb
	if len(rb) > len(ra) {
		longer, shorter = rb, ra
	}
	if strings.Contains(string(longer), string(shorter)) {
		return float64(len(shorter)) / float64(len(longer))
	}
	return float64(len(longer)-Levenshtein(ra, rb)) / float64(len(longer))
}

// Levenshtein is the edit distance between two rune slices.
func Levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
