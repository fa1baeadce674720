package main

import (
	"fmt"
	"os"

	"github.com/plotlinedb/plotline/cmd/plotline/cli"
)

// Populated by -ldflags at release time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		fmt.Fprintln(os.Stderr, "plotline:", err)
		os.Exit(1)
	}
}
