// Command showctl runs operator tasks against the show ring database:
// catalogue numbering, eligibility reports and development tokens.
package main

import (
	"fmt"
	"os"

	"github.com/showring/backend/internal/infrastructure/config"
)

func main() {
	app := newApp(os.Stdout, config.Load)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "showctl:", err)
		os.Exit(1)
	}
}
