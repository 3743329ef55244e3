package version

import "fmt"

var (
	CLIName    = "superfluid"
	CLIVersion = "0.1.0"
	Commit     = "unknown"
	BuildDate  = "unknown"
)

// UserAgent is sent with every CDN and API request.
func UserAgent() string {
	return fmt.Sprintf("%s-cli/%s", CLIName, CLIVersion)
}

func Long() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", CLIVersion, Commit, BuildDate)
}
