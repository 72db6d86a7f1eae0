package version

import "fmt"

// overwritten by ldflags on release builds
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var FullVersion = fmt.Sprintf("%s (%s, %s)", Version, Commit, BuildDate)
