package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat IMAGE PATH",
		Short: "Print a file's contents from IMAGE to stdout",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, dev, err := openImage(args[0])
			if err != nil {
				return err
			}
			defer dev.Close()

			file, id, err := fs.Open(args[1])
			if err != nil {
				return fmt.Errorf("cat %q: %w", args[1], err)
			}
			defer fs.Close(id)

			data, err := file.ReadAll()
			if err != nil {
				return fmt.Errorf("cat %q: %w", args[1], err)
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}
}
