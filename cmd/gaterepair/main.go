package main

import (
	"fmt"
	"os"
)

func main() {
	cmd, o := newRootCmd()
	err := cmd.Execute()
	if cerr := o.close(); cerr != nil {
		fmt.Fprintf(os.Stderr, "close log file: %v\n", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
