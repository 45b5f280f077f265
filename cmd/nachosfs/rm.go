package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRmCmd() *cobra.Command {
	var recursive bool
	cmd := &cobra.Command{
		Use:   "rm IMAGE PATH",
		Short: "Remove a file or directory inside IMAGE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, dev, err := openImage(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			if err := fs.Remove(recursive, args[1]); err != nil {
				return fmt.Errorf("rm %q: %w", args[1], err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "remove a non-empty directory and its contents")
	return cmd
}
