package bconduit

import "github.com/Masterminds/semver/v3"

// contractVersion is the version of the [Request] contract handlers are written against.
var contractVersion = semver.New(0, 1, 0, "", "")

// httpVersion maps a protocol major/minor pair onto a semantic version. HTTP/0.9 becomes 0.9.0,
// HTTP/1.x keeps its minor and every HTTP/2 (or later) revision collapses to major.0.0.
func httpVersion(major, minor int) *semver.Version {
	switch {
	case major <= 0:
		return semver.New(0, 9, 0, "", "")
	case major == 1:
		return semver.New(1, uint64(max(minor, 0)), 0, "", "") //nolint:gosec
	default:
		return semver.New(uint64(major), 0, 0, "", "") //nolint:gosec
	}
}
