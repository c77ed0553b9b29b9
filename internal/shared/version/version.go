package version

// Set via -ldflags "-X esmlex/internal/shared/version.Version=..." at build time.
var (
	Version   = "dev"
	GitCommit = "none"
	BuildDate = "unknown"
)

func String() string {
	return Version + " (" + GitCommit + ", " + BuildDate + ")"
}
