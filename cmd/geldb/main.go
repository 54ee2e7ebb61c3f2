// Command geldb inspects and edits a geldb store directory.
package main

import (
	"fmt"
	"os"

	"github.com/gelpkg/geldb/cmd/geldb/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "geldb: %v\n", err)
		os.Exit(1)
	}
}
