package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print IMAGE",
		Short: "Dump IMAGE's bitmap and root directory for diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, dev, err := openImage(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			out := cmd.OutOrStdout()
			return fs.Print(func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}
}
