// Command axiome runs portfolio analytics and back-tests from the command line
// and imports daily prices into the service's market database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
