// Command slicc evaluates the SLICC 2012 SLE classification criteria from the
// command line and optionally exports the PDF report.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
