package fs

import "encoding/binary"

// Fixed by the on-disk format; changing any of these invalidates every
// existing image.
const (
	// BlockSize is the size in bytes of a single disk block.
	BlockSize = 4096

	// MagicNumber identifies a SimpleFS image.
	MagicNumber uint32 = 0xF0F03410

	// InodesPerBlock is how many 32-byte inodes fit in one block.
	InodesPerBlock = 128

	// PointersPerInode is the number of direct pointers in an inode.
	PointersPerInode = 5

	// PointersPerBlock is how many 32-bit block pointers fit in one
	// indirect block.
	PointersPerBlock = 1024

	// DiskFailure is the -1 sentinel that Create, Stat, Read and Write
	// return on failure. Disk operations themselves return an error.
	DiskFailure = -1

	// inodeSize is the encoded size of one Inode: valid, size, 5
	// direct pointers, indirect, each a 32-bit little-endian field.
	inodeSize = 4 + 4 + PointersPerInode*4 + 4
)

// block is one BlockSize buffer, reinterpreted under disjoint views
// without relying on unsafe aliasing: each view decodes/encodes
// explicitly against the same underlying bytes.
type block [BlockSize]byte

// asSuperBlock decodes the first 16 bytes of the block as a SuperBlock.
func (b *block) asSuperBlock() SuperBlock {
	return SuperBlock{
		MagicNumber: binary.LittleEndian.Uint32(b[0:4]),
		Blocks:      binary.LittleEndian.Uint32(b[4:8]),
		InodeBlocks: binary.LittleEndian.Uint32(b[8:12]),
		Inodes:      binary.LittleEndian.Uint32(b[12:16]),
	}
}

// putSuperBlock encodes sb into the block, zeroing the remainder.
func (b *block) putSuperBlock(sb SuperBlock) {
	*b = block{}
	binary.LittleEndian.PutUint32(b[0:4], sb.MagicNumber)
	binary.LittleEndian.PutUint32(b[4:8], sb.Blocks)
	binary.LittleEndian.PutUint32(b[8:12], sb.InodeBlocks)
	binary.LittleEndian.PutUint32(b[12:16], sb.Inodes)
}

// asInode decodes the slot-th inode (0 <= slot < InodesPerBlock) from the
// block.
func (b *block) asInode(slot int) Inode {
	off := slot * inodeSize
	var in Inode
	in.Valid = binary.LittleEndian.Uint32(b[off : off+4])
	in.Size = binary.LittleEndian.Uint32(b[off+4 : off+8])
	for k := 0; k < PointersPerInode; k++ {
		start := off + 8 + k*4
		in.Direct[k] = binary.LittleEndian.Uint32(b[start : start+4])
	}
	indirectOff := off + 8 + PointersPerInode*4
	in.Indirect = binary.LittleEndian.Uint32(b[indirectOff : indirectOff+4])
	return in
}

// putInode encodes in into the slot-th inode slot of the block.
func (b *block) putInode(slot int, in Inode) {
	off := slot * inodeSize
	binary.LittleEndian.PutUint32(b[off:off+4], in.Valid)
	binary.LittleEndian.PutUint32(b[off+4:off+8], in.Size)
	for k := 0; k < PointersPerInode; k++ {
		start := off + 8 + k*4
		binary.LittleEndian.PutUint32(b[start:start+4], in.Direct[k])
	}
	indirectOff := off + 8 + PointersPerInode*4
	binary.LittleEndian.PutUint32(b[indirectOff:indirectOff+4], in.Indirect)
}

// asPointer decodes the idx-th 32-bit pointer (0 <= idx < PointersPerBlock)
// from the block.
func (b *block) asPointer(idx int) uint32 {
	off := idx * 4
	return binary.LittleEndian.Uint32(b[off : off+4])
}

// putPointer encodes ptr as the idx-th pointer in the block.
func (b *block) putPointer(idx int, ptr uint32) {
	off := idx * 4
	binary.LittleEndian.PutUint32(b[off:off+4], ptr)
}
