package version

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/booksite/internal/version.Version=v0.3.0".
var Version = "unknown"

var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String renders the version line printed by --version.
func String() string {
	return "booksite " + Version + " (" + GitCommit + ", built " + BuildTime + ")"
}
