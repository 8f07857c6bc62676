// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Mediabridge is the canonical application identifier used for filesystem paths and CLI branding.
	Mediabridge = "mediabridge"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// Repository is the upstream repository path used for release lookups.
	Repository = "tvxlabs/mediabridge"
)

// Build metadata, overridden with -ldflags "-X" at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
