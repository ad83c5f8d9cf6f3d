// Package cmd holds build-time variables injected via ldflags, shared
// by the pyscout binary and its commands.
package cmd

// Set at release build time; the zero values identify a local build.
var (
	// Version is the semantic version of the build.
	Version = "dev"
	// Commit is the git commit SHA of the build.
	Commit = "none"
	// Date is the build date.
	Date = "unknown"
)
