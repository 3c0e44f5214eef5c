// Package version holds build metadata set through ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/chloroplast/internal/version.Version=v1.0.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String is the line printed by --version.
func String() string {
	return fmt.Sprintf("chloroplast %s (commit %s, built %s, %s)", Version, GitCommit, BuildTime, runtime.Version())
}
