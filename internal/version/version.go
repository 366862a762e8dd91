// Package version holds build metadata for the pydatatheme binary.
package version

import "fmt"

// Version is set with
// -ldflags "-X git.home.luguber.info/inful/pydatatheme/internal/version.Version=v0.14.4".
var Version = "unknown"

// BuildInfo contains additional build metadata.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String is the line printed by the version command.
func String() string {
	return fmt.Sprintf("pydatatheme %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
