package fs

import "errors"

// FileSystem is a mounted (or not-yet-mounted) SimpleFS instance. It owns
// the BlockDevice handle, a cached copy of the superblock, and the
// free-block bitmap reconstructed at mount time.
type FileSystem struct {
	disk BlockDevice
	meta SuperBlock
	free bitmap
}

// Mounted reports whether this FileSystem is in the MOUNTED state.
func (fs *FileSystem) Mounted() bool {
	return fs.disk != nil
}

// Format writes a fresh SuperBlock and zeroes every other block of disk,
// following the geometry rule in layout.go. It refuses to format a disk
// this FileSystem is already mounted on, and never mounts: the caller
// must Mount separately.
func (fs *FileSystem) Format(disk BlockDevice) error {
	if fs.disk != nil && fs.disk == disk {
		return ErrAlreadyMounted
	}

	blocks := disk.Blocks()
	inodeBlocks, inodes, _ := geometryFor(blocks)

	var sbBlock block
	sbBlock.putSuperBlock(SuperBlock{
		MagicNumber: MagicNumber,
		Blocks:      blocks,
		InodeBlocks: inodeBlocks,
		Inodes:      inodes,
	})
	if err := disk.WriteBlock(0, sbBlock[:]); err != nil {
		return err
	}

	var zero block
	for i := uint32(1); i < blocks; i++ {
		if err := disk.WriteBlock(i, zero[:]); err != nil {
			return err
		}
	}

	DPrintf(1, "format: %d blocks, %d inode blocks, %d inodes", blocks, inodeBlocks, inodes)
	return nil
}

// Mount verifies disk's superblock against the geometry rule and, on
// success, reconstructs the free-block bitmap from the inode table.
func (fs *FileSystem) Mount(disk BlockDevice) error {
	if fs.disk != nil && fs.disk == disk {
		return ErrAlreadyMounted
	}

	var sbBlock block
	if err := disk.ReadBlock(0, sbBlock[:]); err != nil {
		return err
	}
	sb := sbBlock.asSuperBlock()

	if sb.MagicNumber != MagicNumber {
		return ErrBadGeometry
	}
	if sb.Blocks != disk.Blocks() {
		return ErrBadGeometry
	}
	wantInodeBlocks, wantInodes, _ := geometryFor(disk.Blocks())
	if sb.InodeBlocks != wantInodeBlocks {
		return ErrBadGeometry
	}
	if sb.Inodes != wantInodes {
		return ErrBadGeometry
	}

	free := newBitmap(sb.Blocks)
	free.use(0)
	for i := uint32(1); i <= sb.InodeBlocks; i++ {
		free.use(i)
	}

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
			for _, d := range in.Direct {
				if d != 0 {
					free.use(d)
				}
			}
			if in.Indirect != 0 {
				free.use(in.Indirect)
				var iblk block
				if err := disk.ReadBlock(in.Indirect, iblk[:]); err != nil {
					return err
				}
				for p := 0; p < PointersPerBlock; p++ {
					if ptr := iblk.asPointer(p); ptr != 0 {
						free.use(ptr)
					}
				}
			}
		}
	}

	fs.disk = disk
	fs.meta = sb
	fs.free = free
	DPrintf(1, "mount: %d blocks, %d inode blocks, %d inodes", sb.Blocks, sb.InodeBlocks, sb.Inodes)
	return nil
}

// Unmount clears the disk handle and releases the bitmap. It tolerates
// being called on an already-unmounted FileSystem and never touches the
// disk itself.
func (fs *FileSystem) Unmount() {
	fs.disk = nil
	fs.free = nil
	fs.meta = SuperBlock{}
}

// Create allocates the first free inode, marking it valid with a fresh,
// empty set of pointers, and returns its inode number. Returns -1 when
// the inode table is full.
func (fs *FileSystem) Create() int64 {
	if fs.disk == nil {
		return DiskFailure
	}

	for tb := uint32(1); tb <= fs.meta.InodeBlocks; tb++ {
		var tblk block
		if err := fs.disk.ReadBlock(tb, tblk[:]); err != nil {
			return DiskFailure
		}
		for slot := 0; slot < InodesPerBlock; slot++ {
			in := tblk.asInode(slot)
			if in.Valid != 0 {
				continue
			}
			in = Inode{Valid: 1}
			tblk.putInode(slot, in)
			if err := fs.disk.WriteBlock(tb, tblk[:]); err != nil {
				return DiskFailure
			}
			number := (tb-1)*InodesPerBlock + uint32(slot)
			DPrintf(2, "create: inode %d", number)
			return int64(number)
		}
	}
	return DiskFailure
}

// Remove frees inode_number's data blocks (direct, indirect, and the
// indirect block itself) and marks the inode invalid. It fails if the
// inode number is out of range or the inode is already invalid.
func (fs *FileSystem) Remove(inodeNumber uint32) bool {
	if fs.disk == nil {
		return false
	}

	in, err := fs.loadInode(inodeNumber)
	if err != nil || in.Valid == 0 {
		return false
	}

	for k, d := range in.Direct {
		if d != 0 {
			fs.free.free(d)
			in.Direct[k] = 0
		}
	}

	if in.Indirect != 0 {
		var iblk block
		if err := fs.disk.ReadBlock(in.Indirect, iblk[:]); err == nil {
			for p := 0; p < PointersPerBlock; p++ {
				if ptr := iblk.asPointer(p); ptr != 0 {
					fs.free.free(ptr)
				}
			}
		}
		fs.free.free(in.Indirect)
		in.Indirect = 0
	}

	in.Valid = 0
	in.Size = 0

	if err := fs.saveInode(inodeNumber, in); err != nil {
		return false
	}
	DPrintf(2, "remove: inode %d", inodeNumber)
	return true
}

// Stat returns inode_number's size in bytes, or -1 if it doesn't exist.
func (fs *FileSystem) Stat(inodeNumber uint32) int64 {
	if fs.disk == nil {
		return DiskFailure
	}
	in, err := fs.loadInode(inodeNumber)
	if err != nil || in.Valid == 0 {
		return DiskFailure
	}
	return int64(in.Size)
}

// blockForOffset maps a byte offset within a file to the data-block
// number that holds it. allocate controls whether a missing slot is
// allocated (for Write, returning ErrNoSpace if the bitmap is
// exhausted) or treated as end-of-file (for Read, where it returns
// 0, false, nil).
func (fs *FileSystem) blockForOffset(in *Inode, offset uint32, allocate bool) (blockNum uint32, ok bool, err error) {
	q := offset / BlockSize

	if q < PointersPerInode {
		if in.Direct[q] != 0 {
			return in.Direct[q], true, nil
		}
		if !allocate {
			return 0, false, nil
		}
		b, got := fs.free.allocate()
		if !got {
			return 0, false, ErrNoSpace
		}
		in.Direct[q] = b
		return b, true, nil
	}

	if q < PointersPerInode+PointersPerBlock {
		idx := int(q - PointersPerInode)
		if in.Indirect == 0 {
			if !allocate {
				return 0, false, nil
			}
			ib, got := fs.free.allocate()
			if !got {
				return 0, false, ErrNoSpace
			}
			in.Indirect = ib
			var zero block
			if err := fs.disk.WriteBlock(ib, zero[:]); err != nil {
				return 0, false, err
			}
		}

		var iblk block
		if err := fs.disk.ReadBlock(in.Indirect, iblk[:]); err != nil {
			return 0, false, err
		}
		ptr := iblk.asPointer(idx)
		if ptr != 0 {
			return ptr, true, nil
		}
		if !allocate {
			return 0, false, nil
		}
		b, got := fs.free.allocate()
		if !got {
			return 0, false, ErrNoSpace
		}
		iblk.putPointer(idx, b)
		if err := fs.disk.WriteBlock(in.Indirect, iblk[:]); err != nil {
			return 0, false, err
		}
		return b, true, nil
	}

	return 0, false, nil
}

// Read copies up to length bytes from inode_number starting at offset
// into buf, returning the number of bytes actually copied, or -1 if the
// inode cannot be loaded.
func (fs *FileSystem) Read(inodeNumber uint32, buf []byte, length int, offset uint32) int64 {
	if fs.disk == nil {
		return DiskFailure
	}
	in, err := fs.loadInode(inodeNumber)
	if err != nil || in.Valid == 0 {
		return DiskFailure
	}

	if offset >= in.Size {
		return 0
	}

	remaining := length
	if uint32(remaining) > in.Size-offset {
		remaining = int(in.Size - offset)
	}

	var total int
	cur := offset
	for remaining > 0 {
		blockNum, ok, err := fs.blockForOffset(&in, cur, false)
		if err != nil || !ok {
			break
		}

		var data block
		if err := fs.disk.ReadBlock(blockNum, data[:]); err != nil {
			break
		}

		r := int(cur % BlockSize)
		chunk := BlockSize - r
		if chunk > remaining {
			chunk = remaining
		}

		copy(buf[total:total+chunk], data[r:r+chunk])

		total += chunk
		remaining -= chunk
		cur += uint32(chunk)
	}

	return int64(total)
}

// Write copies exactly up to length bytes from buf into inode_number
// starting at offset, allocating data and indirect blocks on demand, and
// returns the number of bytes actually written (which may be less than
// length if the disk runs out of free blocks — not a fatal error).
func (fs *FileSystem) Write(inodeNumber uint32, buf []byte, length int, offset uint32) int64 {
	if fs.disk == nil {
		return DiskFailure
	}
	in, err := fs.loadInode(inodeNumber)
	if err != nil || in.Valid == 0 {
		return DiskFailure
	}

	remaining := length
	if remaining > len(buf) {
		remaining = len(buf)
	}

	var total int
	cur := offset
	for remaining > 0 {
		blockNum, ok, err := fs.blockForOffset(&in, cur, true)
		if err != nil {
			if errors.Is(err, ErrNoSpace) {
				DPrintf(1, "write: inode %d out of space at offset %d", inodeNumber, cur)
			}
			break
		}
		if !ok {
			break
		}

		var data block
		if err := fs.disk.ReadBlock(blockNum, data[:]); err != nil {
			break
		}

		r := int(cur % BlockSize)
		chunk := BlockSize - r
		if chunk > remaining {
			chunk = remaining
		}

		copy(data[r:r+chunk], buf[total:total+chunk])

		if err := fs.disk.WriteBlock(blockNum, data[:]); err != nil {
			break
		}

		total += chunk
		remaining -= chunk
		cur += uint32(chunk)
	}

	if offset+uint32(total) > in.Size {
		in.Size = offset + uint32(total)
	}

	if err := fs.saveInode(inodeNumber, in); err != nil {
		return DiskFailure
	}

	DPrintf(3, "write: inode %d, %d bytes at offset %d", inodeNumber, total, offset)
	return int64(total)
}
