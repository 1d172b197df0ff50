// Package version reports the build version of the command line tools.
//
// The values are set at build time:
//
//	go build -ldflags "-X github.com/information-sharing-networks/pkpass/internal/version.Version=v1.2.0 \
//	  -X github.com/information-sharing-networks/pkpass/internal/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/information-sharing-networks/pkpass/internal/version.BuildDate=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Without them the module version and VCS revision recorded by the Go toolchain are used.
package version

import "runtime/debug"

var (
	Version   = ""
	GitCommit = ""
	BuildDate = ""
)

type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
}

// Get returns the version information of the running binary.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, BuildDate: BuildDate}

	if bi, ok := debug.ReadBuildInfo(); ok {
		if info.Version == "" && bi.Main.Version != "" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildDate == "" {
					info.BuildDate = s.Value
				}
			}
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	if info.GitCommit == "" {
		info.GitCommit = "unknown"
	}
	if info.BuildDate == "" {
		info.BuildDate = "unknown"
	}
	return info
}
