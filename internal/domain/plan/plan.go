// Package plan holds subscription tiers and the quota constants mirrored from the backend.
package plan

import "strings"

// Tier is a subscription level.
type Tier string

// Tier constants.
const (
	Free Tier = "free"
	Pro  Tier = "pro"
)

// Quota holds the per-tier limits. Values are advisory: the backend enforces
// the real limits and rejects over-quota requests on its own.
type Quota struct {
	GenerationsPerDay    int
	GenerationsPerMonth  int
	ToolUsesPerDay       int
	ExpansionsPerArticle int
}

var quotas = map[Tier]Quota{
	Free: {
		GenerationsPerDay:    1,
		GenerationsPerMonth:  31,
		ToolUsesPerDay:       1,
		ExpansionsPerArticle: 2,
	},
	Pro: {
		GenerationsPerDay:    15,
		GenerationsPerMonth:  9999, // effectively unlimited
		ToolUsesPerDay:       10,
		ExpansionsPerArticle: 6,
	},
}

// Parse maps a backend plan string to a Tier. Unknown or empty values are free.
func Parse(s string) Tier {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := quotas[t]; ok {
		return t
	}
	return Free
}

// Quota returns the limits for the tier, falling back to free.
func (t Tier) Quota() Quota {
	if q, ok := quotas[t]; ok {
		return q
	}
	return quotas[Free]
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := quotas[t]
	return ok
}

func (t Tier) String() string { return string(t) }
