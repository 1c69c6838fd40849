// Package brand matches raw transaction descriptions against a curated
// lexicon of known subscription brands.
package brand

import (
	"fmt"
	"regexp"
	"strings"
)

// Rule maps a set of merchant aliases to a canonical brand and category.
// Patterns are alternations matched as substrings, case-insensitively;
// statement descriptions carry merchant codes and suffixes, so full-string
// matching would miss nearly everything.
type Rule struct {
	Name     string
	Category string
	Pattern  string
}

type compiledRule struct {
	regex *regexp.Regexp
	Rule
}

// Resolver scans an ordered rule list; the first matching rule wins. The
// rule list is immutable after construction and safe for concurrent reads.
type Resolver struct {
	rules []compiledRule
}

// Match is a successful lexicon hit.
type Match struct {
	Name     string
	Category string
}

// NewResolver compiles the given rules in order.
func NewResolver(rules []Rule) (*Resolver, error) {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		pattern := r.Pattern
		if !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}
		regex, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("failed to compile brand rule %q: %w", r.Name, err)
		}
		compiled = append(compiled, compiledRule{Rule: r, regex: regex})
	}
	return &Resolver{rules: compiled}, nil
}

// Resolve returns the first rule matching the description, if any.
func (r *Resolver) Resolve(description string) (Match, bool) {
	for _, rule := range r.rules {
		if rule.regex.MatchString(description) {
			return Match{Name: rule.Name, Category: rule.Category}, true
		}
	}
	return Match{}, false
}

// Rules returns a copy of the rule list for display.
func (r *Resolver) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	for i, c := range r.rules {
		out[i] = c.Rule
	}
	return out
}
