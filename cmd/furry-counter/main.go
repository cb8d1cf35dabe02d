// Command furry-counter shows two buttons sharing one counter store. The
// first reads the store through a bucketing selector and repaints only when
// the bucket changes; the second repaints on every click.
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
