// Package version carries build information injected at link time.
package version

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"
)

// Set with -ldflags "-X github.com/samvyt/rifa/internal/shared/version.Version=v1.2.3 ..."
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Normalize ensures version string has "v" prefix for semver compatibility.
// Examples: "1.2.3" -> "v1.2.3", "v1.2.3" -> "v1.2.3"
func Normalize(version string) string {
	version = strings.TrimSpace(version)
	if version == "" {
		return ""
	}
	if !strings.HasPrefix(version, "v") {
		return "v" + version
	}
	return version
}

// IsRelease reports whether v is a semver release without a prerelease suffix.
func IsRelease(v string) bool {
	v = Normalize(v)
	return semver.IsValid(v) && semver.Prerelease(v) == ""
}

func String() string {
	kind := "release"
	if !IsRelease(Version) {
		kind = "development build"
	}
	return fmt.Sprintf("rifa %s (%s, commit %s, built %s)", Version, kind, Commit, BuildDate)
}
