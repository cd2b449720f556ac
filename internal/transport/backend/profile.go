package backend

import (
	"context"
	"net/http"

	"github.com/kailas-cloud/seoscribe/internal/domain/plan"
	"github.com/kailas-cloud/seoscribe/internal/domain/profile"
	"github.com/kailas-cloud/seoscribe/internal/domain/usage"
)

type profileWire struct {
	Plan           string          `json:"plan"`
	Email          string          `json:"email"`
	Usage          *usage.Counters `json:"usage"`
	ToolUsageToday int             `json:"tool_usage_today"`
	ToolsToday     int             `json:"tools_today"`
	ToolLimitDaily int             `json:"tool_limit_daily"`
}

// Profile fetches GET /profile. Older backends report tool usage as
// tools_today and omit tool_limit_daily; both fall back here.
func (c *Client) Profile(ctx context.Context) (profile.Profile, error) {
	var w profileWire
	if err := c.doJSON(ctx, Request{Method: http.MethodGet, Path: "/profile"}, &w); err != nil {
		return profile.Profile{}, err
	}

	p := profile.Profile{
		Plan:           plan.Parse(w.Plan),
		Email:          w.Email,
		ToolUsageToday: w.ToolUsageToday,
		ToolLimitDaily: w.ToolLimitDaily,
	}
	if w.Usage != nil {
		p.Usage = *w.Usage
	}
	if p.ToolUsageToday == 0 {
		p.ToolUsageToday = w.ToolsToday
	}
	p.ToolLimitDaily = p.ToolLimit()
	return p, nil
}
