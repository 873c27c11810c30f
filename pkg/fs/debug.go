package fs

import (
	"fmt"
	"io"
)

// Debug reads block 0 off disk and reports the superblock's validity and
// counts, then walks every inode-table block (1..InodeBlocks inclusive)
// and, for each valid inode, reports its number, size, direct block
// numbers, and (if present) its indirect block number and the pointers
// inside it. Purely diagnostic; makes no changes to disk.
func Debug(disk BlockDevice, w io.Writer) error {
	var sbBlock block
	if err := disk.ReadBlock(0, sbBlock[:]); err != nil {
		return err
	}
	sb := sbBlock.asSuperBlock()

	validity := "invalid"
	if sb.MagicNumber == MagicNumber {
		validity = "valid"
	}

	fmt.Fprintf(w, "SuperBlock:\n")
	fmt.Fprintf(w, "    magic number is %s\n", validity)
	fmt.Fprintf(w, "    %d blocks\n", sb.Blocks)
	fmt.Fprintf(w, "    %d inode blocks\n", sb.InodeBlocks)
	fmt.Fprintf(w, "    %d inodes\n", sb.Inodes)

	for tb := uint32(1); tb <= sb.InodeBlocks; tb++ {
		var tblk block
		if err := disk.ReadBlock(tb, tblk[:]); err != nil {
			return err
		}
		for slot := 0; slot < InodesPerBlock; slot++ {
			in := tblk.asInode(slot)
			if in.Valid == 0 {
				continue
			}
			number := (tb-1)*InodesPerBlock + uint32(slot)

			fmt.Fprintf(w, "\n")
			fmt.Fprintf(w, "Inode %d:\n", number)
			fmt.Fprintf(w, "    size: %d bytes\n", in.Size)

			fmt.Fprintf(w, "    direct blocks:")
			for _, d := range in.Direct {
				if d != 0 {
					fmt.Fprintf(w, " %d", d)
				}
			}
			fmt.Fprintf(w, "\n")

			if in.Indirect != 0 {
				fmt.Fprintf(w, "    indirect block: %d\n", in.Indirect)
				fmt.Fprintf(w, "    indirect data blocks:")

				var iblk block
				if err := disk.ReadBlock(in.Indirect, iblk[:]); err != nil {
					return err
				}
				for p := 0; p < PointersPerBlock; p++ {
					if ptr := iblk.asPointer(p); ptr != 0 {
						fmt.Fprintf(w, " %d", ptr)
					}
				}
				fmt.Fprintf(w, "\n")
			}
		}
	}

	return nil
}
