package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/PinYuan/nachosfs"
	"github.com/PinYuan/nachosfs/archive"
	"github.com/PinYuan/nachosfs/blockdev"
)

func newSnapshotCmd() *cobra.Command {
	var codec string
	cmd := &cobra.Command{
		Use:   "snapshot IMAGE OUTPUT",
		Short: "Write a compressed snapshot of IMAGE to OUTPUT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g := nachosfs.DefaultGeometry()
			dev, err := blockdev.OpenFile(args[0], g.NumSectors, g.SectorSize, true)
			if err != nil {
				return err
			}
			defer dev.Close()

			out, err := os.Create(args[1])
			if err != nil {
				return err
			}
			defer out.Close()

			return archive.Snapshot(dev, out, archive.Codec(codec))
		},
	}
	cmd.Flags().StringVarP(&codec, "codec", "c", string(archive.XZ), "compression codec (xz, lz4)")
	return cmd
}
