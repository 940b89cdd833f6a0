package main

import "github.com/nodewee/doc-highlight/cmd"

// Version information - these will be set during build time via ldflags
var (
	Version   = "dev"     // Application version (e.g., "v1.2.3")
	GitCommit = "none"    // Git commit hash
	BuildTime = "unknown" // Build timestamp
	BuildBy   = "unknown" // Builder information
)

func main() {
	cmd.SetVersionInfo(Version, GitCommit, BuildTime, BuildBy)
	cmd.Execute()
}
