package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRulesCompile(t *testing.T) {
	_, err := NewResolver(DefaultRules())
	require.NoError(t, err)
}

func TestResolve(t *testing.T) {
	resolver := MustDefaultResolver()

	tests := []struct {
		name         string
		description  string
		wantName     string
		wantCategory string
		wantMatch    bool
	}{
		{
			name:         "exact brand",
			description:  "NETFLIX.COM",
			wantName:     "netflix",
			wantCategory: "entertainment",
			wantMatch:    true,
		},
		{
			name:         "case insensitive with surrounding junk",
			description:  "POS PURCHASE spotify usa 884-555",
			wantName:     "spotify",
			wantCategory: "entertainment",
			wantMatch:    true,
		},
		{
			name:         "alias alternation",
			description:  "OFFICE 365 RENEWAL",
			wantName:     "microsoft 365",
			wantCategory: "productivity",
			wantMatch:    true,
		},
		{
			name:         "membership maps to retail brand",
			description:  "COSTCO WHSE #0482 MEMBERSHIP",
			wantName:     "costco membership",
			wantCategory: "shopping",
			wantMatch:    true,
		},
		{
			name:        "no match",
			description: "CORNER BAKERY CAFE 123",
			wantMatch:   false,
		},
		{
			name:        "word boundary prevents substring hit",
			description: "MAXIMUM AUTO PARTS",
			wantMatch:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := resolver.Resolve(tt.description)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantName, m.Name)
				assert.Equal(t, tt.wantCategory, m.Category)
			}
		})
	}
}

// Rules are scanned in order and the first match wins, so specific aliases
// shadow generic ones.
func TestResolveFirstMatchWins(t *testing.T) {
	resolver, err := NewResolver([]Rule{
		{Name: "adobe creative cloud", Category: "productivity", Pattern: `\badobe\s*creative\s*cloud\b`},
		{Name: "adobe", Category: "productivity", Pattern: `\badobe\b`},
	})
	require.NoError(t, err)

	m, ok := resolver.Resolve("ADOBE CREATIVE CLOUD 52.99")
	require.True(t, ok)
	assert.Equal(t, "adobe creative cloud", m.Name)
}

func TestNewResolverBadPattern(t *testing.T) {
	_, err := NewResolver([]Rule{{Name: "broken", Pattern: `([`}})
	assert.Error(t, err)
}

func TestRulesReturnsCopy(t *testing.T) {
	resolver := MustDefaultResolver()
	rules := resolver.Rules()
	require.NotEmpty(t, rules)

	rules[0].Name = "mutated"
	fresh := resolver.Rules()
	assert.NotEqual(t, "mutated", fresh[0].Name)
}
