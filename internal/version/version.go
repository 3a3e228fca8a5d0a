// Package version holds build information set via -ldflags.
package version

// Set at build time:
//
//	go build -ldflags "-X github.com/eduardolat/nanogen/internal/version.Version=v1.0.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent returns the identifier sent in HTTP responses
func UserAgent() string {
	return "nanogen/" + Version
}
