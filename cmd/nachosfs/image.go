package main

import (
	"fmt"

	"github.com/PinYuan/nachosfs"
	"github.com/PinYuan/nachosfs/blockdev"
)

// openImage mounts an existing image file at path with the default
// geometry. Every subcommand but format and snapshot goes through this.
func openImage(path string) (*nachosfs.FileSystem, blockdev.Device, error) {
	g := nachosfs.DefaultGeometry()
	dev, err := blockdev.OpenFile(path, g.NumSectors, g.SectorSize, false)
	if err != nil {
		return nil, nil, fmt.Errorf("open image %q: %w", path, err)
	}
	fs, err := nachosfs.Open(g, dev)
	if err != nil {
		dev.Close()
		return nil, nil, fmt.Errorf("mount image %q: %w", path, err)
	}
	return fs, dev, nil
}
