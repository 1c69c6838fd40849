// Package merchant resolves free-text transaction descriptions to canonical
// merchant keys: normalization, fuzzy grouping of near-duplicate keys, and
// brand lexicon annotation.
package merchant

import (
	"regexp"
	"strings"
)

// maxKeyLen bounds normalized keys; statement descriptions can run long
// with reference junk and everything useful is at the front.
const maxKeyLen = 80

// stopwords are generic business suffixes and payment jargon that carry no
// merchant identity.
var stopwords = map[string]struct{}{
	"inc": {}, "llc": {}, "ltd": {}, "co": {}, "corp": {}, "the": {},
	"online": {}, "payment": {}, "purchase": {}, "autopay": {},
	"subscription": {}, "renewal": {}, "services": {}, "service": {},
}

var (
	urlPattern      = regexp.MustCompile(`https?://\S+`)
	digitPattern    = regexp.MustCompile(`\d+`)
	nonAlphaPattern = regexp.MustCompile(`[^a-z\s]`)
)

// Normalize turns a raw description into a canonical merchant key: lowercase,
// URLs and digit runs removed, non-letters replaced with spaces, stopwords
// dropped, whitespace collapsed, truncated. Pure and deterministic; a
// non-informative description normalizes to "".
func Normalize(description string) string {
	t := strings.ToLower(description)
	t = urlPattern.ReplaceAllString(t, " ")
	t = digitPattern.ReplaceAllString(t, " ")
	t = nonAlphaPattern.ReplaceAllString(t, " ")

	var kept []string
	for _, tok := range strings.Fields(t) {
		if _, skip := stopwords[tok]; skip {
			continue
		}
		kept = append(kept, tok)
	}

	key := strings.Join(kept, " ")
	if len(key) > maxKeyLen {
		key = key[:maxKeyLen]
	}
	return strings.TrimSpace(key)
}
