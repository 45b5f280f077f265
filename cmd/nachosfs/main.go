// Command nachosfs drives a nachosfs disk image from the shell: format,
// create, remove, list, cat, print and snapshot a file-backed image
// without writing a line of Go.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "nachosfs",
		Short: "Inspect and manipulate a nachosfs disk image",
	}
	root.AddCommand(
		newFormatCmd(),
		newCreateCmd(),
		newRmCmd(),
		newLsCmd(),
		newCatCmd(),
		newPrintCmd(),
		newSnapshotCmd(),
	)
	return root
}
