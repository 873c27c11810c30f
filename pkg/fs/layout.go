package fs

// geometryFor computes the layout fields format and mount must agree on,
// given the total number of blocks in the disk image: the number of
// inode-table blocks (10% of blocks, rounded up), the resulting total
// inode count, and the index of the first data block.
func geometryFor(blocks uint32) (inodeBlocks, inodes, dataStart uint32) {
	if blocks%10 == 0 {
		inodeBlocks = blocks / 10
	} else {
		inodeBlocks = blocks/10 + 1
	}
	inodes = inodeBlocks * InodesPerBlock
	dataStart = 1 + inodeBlocks
	return inodeBlocks, inodes, dataStart
}
