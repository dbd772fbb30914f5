// Package version holds build information, overridable with
// -ldflags "-X github.com/axiome/analytics/internal/version.Version=...".
package version

var (
	Version = "1.0.0"
	Commit  = "unknown"
)
