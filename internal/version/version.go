// Package version holds the cronctl version string.
package version

// Version is the cronctl version, overridden at build time via
// -ldflags "-X github.com/odyssey/cronctl/internal/version.Version=v1.2.3".
var Version = "v0.0.0-dev"
