// Command amsctl is the operator tool for the archival backend: schema
// migrations, catalog rebuilds and service tokens.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
