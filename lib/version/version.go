package version

import "fmt"

var (
	Version             = "0.1.0" // It must follow SemVer (https://semver.org)
	GitCommit, GitState string    // GitCommit and GitState are set by the build system with `-ldflags -X`
	BuildDate           string    // BuildDate is set by the build system
)

func ToDetailVersion() string {
	commit := GitCommit
	if len(GitState) > 0 && GitState != "clean" {
		commit += "-" + GitState
	}

	return fmt.Sprintf("ballotbox version=%s git=%s build=%s", Version, commit, BuildDate)
}
