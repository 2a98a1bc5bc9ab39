package main

import (
	"fmt"
	"os"

	"github.com/kharelpawan/uaebackend/cmd/uaebackend/cli"
)

// Set via -ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := cli.Execute(version, commit, date); err != nil {
		fmt.Fprintln(os.Stderr, "uaebackend:", err)
		os.Exit(1)
	}
}
