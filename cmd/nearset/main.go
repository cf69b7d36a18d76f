// Command nearset runs near-set operations over a universe of feature rows
// described in a YAML file.
//
//	nearset --universe u.yaml intersection --a 0-9 --b 10-19 --epsilon 0.1
//
// Results are printed as JSON on stdout.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
