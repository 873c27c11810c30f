package fs

// SuperBlock is the decoded contents of block 0: magic number, total
// block count, inode-table block count, and total inode count.
type SuperBlock struct {
	MagicNumber uint32
	Blocks      uint32
	InodeBlocks uint32
	Inodes      uint32
}
