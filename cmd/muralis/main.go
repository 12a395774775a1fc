package main

import (
	"fmt"
	"os"
)

func main() {
	Execute()
}

// fatal closes the open board, reports err and exits. Deferred calls do
// not run after os.Exit, so the session is released here.
func fatal(msg string, err error) {
	if current != nil {
		if cerr := current.Close(); cerr != nil {
			fmt.Fprintf(os.Stderr, "Failed to close board: %v\n", cerr)
		}
		current = nil
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
