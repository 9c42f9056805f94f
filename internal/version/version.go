// Package version holds build metadata injected via ldflags.
package version

import "fmt"

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata for `catalogsearch version`.
func String() string {
	return fmt.Sprintf("catalogsearch %s (commit %s, built %s)", Version, Commit, Date)
}

// UserAgent is sent on upstream catalog requests.
func UserAgent() string {
	return "catalogsearch/" + Version
}
