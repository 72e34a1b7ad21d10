// internal/version/version.go
package version

// Version is set at build time via -ldflags.
var Version = "dev"

// Banner is printed by every subcommand before doing any work.
func Banner() string {
	return "r2dt version " + Version
}
