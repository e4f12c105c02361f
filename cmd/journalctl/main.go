// journalctl reads and writes the emotion journal from the terminal.
package main

import (
	"fmt"
	"os"

	"deltajournal-backend/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
