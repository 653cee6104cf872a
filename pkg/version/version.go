// Package version is stamped at build time with
// -ldflags "-X github.com/jeanpaul/learnsimply/pkg/version.Version=...".
package version

var (
	Version = "dev"
	Commit  = "none"
)
