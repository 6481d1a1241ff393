// Package buildinfo carries version details stamped in at link time.
package buildinfo

import "fmt"

var (
	// Version is set via -ldflags "-X .../buildinfo.Version=...".
	Version = "dev"
	// Commit is the source revision the binary was built from.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// String formats the build details for `coa --version`.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
