// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// UserAgent identifies the shell to the backend.
func UserAgent() string {
	return fmt.Sprintf("seoscribe/%s (%s)", Version, Commit)
}
