// Command deckhound indexes slide decks into a searchable SQLite library.
package main

import (
	"os"

	"github.com/deckhound/deckhound/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
