// Package version holds build metadata injected via ldflags:
//
//	-X github.com/kailas-cloud/venuedex/internal/version.Version=v1.2.0
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build as "v1.2.0 (abc1234, 2026-01-02)", dropping metadata
// the build did not inject.
func String() string {
	switch {
	case Commit == "unknown" && Date == "unknown":
		return Version
	case Date == "unknown":
		return fmt.Sprintf("%s (%s)", Version, shortCommit(Commit))
	default:
		return fmt.Sprintf("%s (%s, %s)", Version, shortCommit(Commit), Date)
	}
}

func shortCommit(c string) string {
	if len(c) > 7 {
		return c[:7]
	}
	return c
}
