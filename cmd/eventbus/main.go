// Package main provides the entry point for the eventbus CLI.
package main

import (
	"fmt"
	"os"

	"github.com/telnet2/eventbus/cmd/eventbus/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
