package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsCmd() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "ls IMAGE [PATH]",
		Short: "List a directory's contents inside IMAGE",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/"
			if len(args) == 2 {
				path = args[1]
			}
			fs, dev, err := openImage(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			out := cmd.OutOrStdout()
			return fs.List(recursive, path, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "list sub-directories recursively")
	return cmd
}
