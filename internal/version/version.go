package version

// Set at build time with -ldflags "-X github.com/autodev/autodev/internal/version.Version=v1.2.3"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// GetFullVersion returns detailed version information
func GetFullVersion() string {
	return "autodev " + Version + " (commit: " + Commit + ", built: " + BuildDate + ")"
}
