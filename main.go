package main

import (
	"os"

	"github.com/mchmarny/navmenu/pkg/cli"
)

// Lets `go run . serve` work from the repository root.
func main() {
	os.Exit(cli.Execute(cli.BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}))
}
