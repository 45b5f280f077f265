package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PinYuan/nachosfs"
	"github.com/PinYuan/nachosfs/blockdev"
)

func newFormatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "format IMAGE",
		Short: "Create and format a new disk image at IMAGE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := nachosfs.DefaultGeometry()
			dev, err := blockdev.CreateFile(args[0], g.NumSectors, g.SectorSize)
			if err != nil {
				return err
			}
			defer dev.Close()

			if _, err := nachosfs.Format(g, dev); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "formatted %s (%d sectors of %d bytes)\n", args[0], g.NumSectors, g.SectorSize)
			return nil
		},
	}
}
