package config

import "fmt"

// The following vars are automatically injected via -ldflags.
var (
	ModuleName = "go-hdkey"
	Commit     = "< 40 chars git commit hash via ldflags >"
	BuildDate  = "1970-01-01T00:00:00+00:00"
)

// GetFormattedBuildArgs returns string representation of buildargs, e.g. for printing to stdout.
func GetFormattedBuildArgs() string {
	return fmt.Sprintf("%v @ %v (%v)", ModuleName, Commit, BuildDate)
}
