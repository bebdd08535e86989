// Package version holds build information, set with -ldflags at release time.
package version

// Set with -X dira-price/internal/version.Version=...
var (
	Version = "1.0.0"
	Commit  = "dev"
)

// Name is the program name
const Name = "dira-price"

// String returns "dira-price 1.0.0 (dev)"
func String() string {
	return Name + " " + Version + " (" + Commit + ")"
}
