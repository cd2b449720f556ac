// Package profile holds the signed-in user's plan and usage as reported by the backend.
package profile

import (
	"github.com/kailas-cloud/seoscribe/internal/domain/plan"
	"github.com/kailas-cloud/seoscribe/internal/domain/usage"
)

// Profile is the authoritative account state.
type Profile struct {
	Plan           plan.Tier
	Email          string
	Usage          usage.Counters
	ToolUsageToday int
	ToolLimitDaily int
}

// ToolsUsed returns today's tool uses, preferring the dedicated counter.
func (p Profile) ToolsUsed() int {
	if p.ToolUsageToday > 0 {
		return p.ToolUsageToday
	}
	return p.Usage.Today.Tools
}

// ToolLimit returns the daily tool limit, falling back to the plan constant.
func (p Profile) ToolLimit() int {
	if p.ToolLimitDaily > 0 {
		return p.ToolLimitDaily
	}
	return p.Plan.Quota().ToolUsesPerDay
}
