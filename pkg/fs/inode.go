package fs

// Inode is a 32-byte on-disk file record: whether it's in use, its size
// in bytes, up to five direct data-block numbers, and one indirect
// pointer-block number. A zero direct/indirect entry means "unused".
type Inode struct {
	Valid    uint32
	Size     uint32
	Direct   [PointersPerInode]uint32
	Indirect uint32
}

// inodeLocation returns which inode-table block holds inode number n, and
// which slot within that block: inode n lives in table block
// 1+n/InodesPerBlock, slot n%InodesPerBlock.
func inodeLocation(n uint32) (tableBlock uint32, slot int) {
	tableBlock = 1 + n/InodesPerBlock
	slot = int(n % InodesPerBlock)
	return tableBlock, slot
}

// loadInode reads inode number n off disk. It does not check validity;
// callers that require a valid inode check in.Valid themselves.
func (fs *FileSystem) loadInode(n uint32) (Inode, error) {
	if n >= fs.meta.Inodes {
		return Inode{}, ErrBadInode
	}
	tableBlock, slot := inodeLocation(n)
	var blk block
	if err := fs.disk.ReadBlock(tableBlock, blk[:]); err != nil {
		return Inode{}, err
	}
	return blk.asInode(slot), nil
}

// saveInode writes in back as inode number n, read-modify-write on its
// enclosing inode-table block.
func (fs *FileSystem) saveInode(n uint32, in Inode) error {
	if n >= fs.meta.Inodes {
		return ErrBadInode
	}
	tableBlock, slot := inodeLocation(n)
	var blk block
	if err := fs.disk.ReadBlock(tableBlock, blk[:]); err != nil {
		return err
	}
	blk.putInode(slot, in)
	return fs.disk.WriteBlock(tableBlock, blk[:])
}
