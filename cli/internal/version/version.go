// Package version holds the CLI version string. Default is "dev"; release
// builds can set it via: go build -ldflags "-X commitcraft/cli/internal/version.Version=v1.0.0"
package version

import "runtime/debug"

// Version is the commitcraft version. Set at build time for releases.
var Version = "dev"

// Commit is the short git commit hash. Set at build time for dev builds via ldflags.
var Commit = ""

// String returns the version string for --version.
// For dev builds with Commit set, returns "dev (abc1234)"; otherwise returns Version.
func String() string {
	if Version != "dev" || Commit != "" {
		return format(Version, Commit)
	}
	return format(Version, vcsRevision())
}

func format(v, commit string) string {
	if v != "dev" || commit == "" {
		return v
	}
	return v + " (" + commit + ")"
}

// vcsRevision reads the revision stamped by `go build` in a VCS checkout.
func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
