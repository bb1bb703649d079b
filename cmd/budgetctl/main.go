// Command budgetctl runs budget tracker maintenance tasks from the shell.
package main

import (
	"os"

	"budgettracker/cmd/budgetctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
