// Command projects runs the example project tracker: "serve" starts the
// HTTP server and "console" dispatches one key=value console request.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
