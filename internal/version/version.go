package version

import "fmt"

var (
	version   string
	buildtime string
)

// GetVersion returns the version set at link time with
// -ldflags '-X gitlab.com/edge-engine/roqplay/internal/version.version=...'.
func GetVersion() string {
	if version == "" {
		return "unknown"
	}
	return version
}

// GetBuildTime returns the build time set at link time.
func GetBuildTime() string {
	return buildtime
}

// GetVersionString returns a one line description of the binary.
func GetVersionString(progname string) string {
	return fmt.Sprintf("%s, version %v, built %v", progname, GetVersion(), GetBuildTime())
}
