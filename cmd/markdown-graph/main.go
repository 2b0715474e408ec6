// Command markdown-graph builds a link graph from a corpus of markdown documents.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/markdown-graph/internal/adapters/driving/cli"
)

// version is set by the build via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
