package nachosfs

import (
	"fmt"
	"strings"
	"time"
)

// Print dumps the bitmap inode, the root directory inode, the bitmap
// contents and the root directory contents to w, for diagnostics (spec.md
// §4.5). Each data sector is printed as raw ASCII-or-hex bytes directly —
// never re-interpreted as an index of further sectors, correcting the bug
// noted in spec.md §9.
func (fs *FileSystem) Print(w func(string)) error {
	w(fmt.Sprintf("volume %s, formatted %s", fs.vol, fs.formatted.Format(time.RFC3339)))

	bmHdr := fs.bitmapFile.Header()
	w(fmt.Sprintf("free-map file, sector %d, length %d bytes", FreeMapSector, bmHdr.FileLength()))
	if err := printSectors(fs.dev, fs.g.SectorSize, bmHdr.DataSectors(), w); err != nil {
		return err
	}

	dirHdr := fs.rootDirFile.Header()
	w(fmt.Sprintf("root directory file, sector %d, length %d bytes", DirectorySector, dirHdr.FileLength()))
	if err := printSectors(fs.dev, fs.g.SectorSize, dirHdr.DataSectors(), w); err != nil {
		return err
	}

	w("free-map contents:")
	w(dumpHex(fs.bm.ToBytes()))

	w("root directory contents:")
	for _, e := range fs.rootDir.Entries() {
		kind := "file"
		if e.IsDir {
			kind = "dir"
		}
		w(fmt.Sprintf("  %s\t%s\tsector %d", e.Name, kind, e.Sector))
	}
	return nil
}

func printSectors(dev interface {
	ReadSector(s int, buf []byte) error
}, sectorSize int, sectors []int, w func(string)) error {
	for _, s := range sectors {
		buf := make([]byte, sectorSize)
		if err := dev.ReadSector(s, buf); err != nil {
			return fmt.Errorf("nachosfs: print: read sector %d: %w", s, err)
		}
		w(fmt.Sprintf("  sector %d:\n%s", s, dumpHex(buf)))
	}
	return nil
}

// dumpHex renders b as 16-byte rows of hex followed by their ASCII form,
// xxd-style, the one layout Print ever needs for a raw sector or the
// free-map's packed bytes — unlike a general-purpose dumper this carries no
// row-filtering or diffing options, since nothing in this module compares
// two images byte for byte.
func dumpHex(b []byte) string {
	const bytesPerRow = 16
	var out strings.Builder
	for offset := 0; offset < len(b); offset += bytesPerRow {
		end := offset + bytesPerRow
		if end > len(b) {
			end = len(b)
		}
		row := b[offset:end]

		fmt.Fprintf(&out, "  %08x ", offset)
		for i := 0; i < bytesPerRow; i++ {
			if i%8 == 0 {
				out.WriteByte(' ')
			}
			if i < len(row) {
				fmt.Fprintf(&out, " %02x", row[i])
			} else {
				out.WriteString("   ")
			}
		}
		out.WriteString("  ")
		for _, c := range row {
			if c < 32 || c > 126 {
				out.WriteByte('.')
			} else {
				out.WriteByte(c)
			}
		}
		out.WriteByte('\n')
	}
	return out.String()
}
