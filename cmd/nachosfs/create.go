package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreateCmd() *cobra.Command {
	var isDir bool
	var size int
	cmd := &cobra.Command{
		Use:   "create IMAGE PATH",
		Short: "Create a file or directory inside IMAGE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, dev, err := openImage(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			if err := fs.Create(args[1], size, isDir); err != nil {
				return fmt.Errorf("create %q: %w", args[1], err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&isDir, "directory", "d", false, "create a directory instead of a file")
	cmd.Flags().IntVarP(&size, "size", "s", 0, "initial file size in bytes")
	return cmd
}
