// Command iamkit queries remote scenario catalogue services.
package main

import (
	"os"

	"github.com/iamkit/iamkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
