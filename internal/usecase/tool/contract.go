package tool

import (
	"context"
	"encoding/json"

	"github.com/kailas-cloud/seoscribe/internal/transport/backend"
)

// Runner calls a backend tool.
type Runner interface {
	RunTool(ctx context.Context, tool backend.Tool, payload any) (json.RawMessage, error)
}

// Quota gates tool uses and reconciles usage after them.
type Quota interface {
	CanUseTool() bool
	NoteToolUse()
	RefreshUsage(ctx context.Context)
}
