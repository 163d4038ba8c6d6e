// Command pathguardctl is the CLI entry point for evaluating pathguard
// access control policies.
package main

import (
	"fmt"
	"os"

	"github.com/brightloom/pathguard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
