package merchant

import (
	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// GroupKeys merges near-duplicate merchant keys. Keys are processed in
// first-seen order: a key not yet assigned becomes its own cluster
// representative, and every later key whose token-set similarity to an
// existing representative meets the threshold maps to that representative.
//
// The first sufficiently-similar representative wins, which makes the
// result depend on input order. That order-dependence is a documented
// contract: callers feed keys in stable first-seen order and get stable
// groupings back. Empty keys are never merged with anything.
//
// Grouping is inherently sequential within one batch; a later key's
// assignment depends on the clusters formed so far.
func GroupKeys(keys []string, threshold int) map[string]string {
	mapping := make(map[string]string, len(keys))

	uniq := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		uniq = append(uniq, k)
	}

	for i, u := range uniq {
		if u == "" {
			continue
		}
		if _, assigned := mapping[u]; assigned {
			continue
		}
		mapping[u] = u
		for _, v := range uniq[i+1:] {
			if v == "" {
				continue
			}
			if _, assigned := mapping[v]; assigned {
				continue
			}
			if fuzzy.TokenSetRatio(u, v) >= threshold {
				mapping[v] = u
			}
		}
	}

	return mapping
}
