// Package tool runs the SEO tools behind the daily tool quota.
package tool

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/seoscribe/internal/domain"
	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
)

// Service coordinates tool runs.
type Service struct {
	runner Runner
	quota  Quota
}

// New creates a Service.
func New(r Runner, q Quota) *Service {
	return &Service{runner: r, quota: q}
}

// Run calls a tool if today's tool quota allows it.
func (s *Service) Run(ctx context.Context, name backend.Tool, payload any) (json.RawMessage, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownTool, name)
	}
	if !s.quota.CanUseTool() {
		return nil, domain.ErrToolLimitReached
	}

	out, err := s.runner.RunTool(ctx, name, payload)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", name, err)
	}

	s.quota.NoteToolUse()
	s.quota.RefreshUsage(ctx)
	return out, nil
}
