package panels

import (
	"strings"
)

// SlugFromURL derives the storefront identity key from the final path segment
// of its listing URL. Records without a usable URL are rejected upstream.
func SlugFromURL(rawURL string) (string, bool) {
	trimmed := strings.TrimRight(strings.TrimSpace(rawURL), "/")
	if trimmed == "" || !strings.Contains(trimmed, "/") {
		return "", false
	}
	slug := trimmed[strings.LastIndex(trimmed, "/")+1:]
	if slug == "" {
		return "", false
	}
	return slug, true
}

// NormalizePhone standardizes a North American phone number to the
// 1########## form. Numbers that do not start with a digit or parenthesis,
// contain no digits, or collapse to an all-zero exchange normalize to the
// empty string, which downstream components treat as "no phone".
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if c := raw[0]; c != '(' && (c < '0' || c > '9') {
		return ""
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	n := digits.String()
	if n == "" {
		return ""
	}

	// Area codes in North America cannot start with 0 or 1
	if n[0] != '1' {
		n = "1" + n
	}
	if len(n) > 11 {
		n = n[:11]
	}
	if len(n) != 11 || strings.Contains(n, "000000") {
		return ""
	}
	return n
}

// NormalizeName lowercases and trims a storefront display name.
func NormalizeName(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
