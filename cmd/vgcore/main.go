// Command vgcore is a thin demonstration CLI over the vg alignment and
// site-decomposition core. It accepts a tiny in-memory graph literal via
// flags or stdin JSON; no on-disk graph format is part of the core.
package main

import (
	"log"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}

// run1 executes one invocation of the CLI and returns its exit code,
// letting the testscript harness drive vgcore as a subprocess function
// instead of an external binary.
func run1() int {
	if err := rootCmd.Execute(); err != nil {
		log.Print(err)
		return 1
	}
	return 0
}
