// Command aura is the Aura daemon and CLI entry point: it runs the
// background daemon, adapts Claude Code hooks into events, and offers
// small utility subcommands around session naming and hook installation.
package main

import (
	"fmt"
	"os"

	"github.com/agent-aura/aura/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
