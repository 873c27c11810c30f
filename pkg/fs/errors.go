package fs

import "errors"

// Error kinds surfaced by FileSystem operations. Format and Mount return
// them (or the disk's own error) directly, so callers that care which
// kind of failure occurred can check with errors.Is. Create, Remove,
// Stat, Read and Write return plain -1/false/byte-count outcomes and do
// not expose the underlying error.
var (
	// ErrBadDisk covers a nil disk handle, an out-of-range block number,
	// or a nil buffer.
	ErrBadDisk = errors.New("simplefs: bad disk")

	// ErrBadGeometry covers a superblock that doesn't match the geometry
	// rule: wrong magic, wrong block count, wrong inode-block count.
	ErrBadGeometry = errors.New("simplefs: bad geometry")

	// ErrAlreadyMounted covers format/mount being called against a disk
	// this FileSystem is already mounted on.
	ErrAlreadyMounted = errors.New("simplefs: already mounted")

	// ErrBadInode covers an out-of-range inode number or a slot whose
	// valid flag is 0.
	ErrBadInode = errors.New("simplefs: bad inode")

	// ErrNoSpace covers an allocation request with no free data block
	// left in the bitmap. Not fatal for write: callers get back the
	// bytes already written.
	ErrNoSpace = errors.New("simplefs: no space")

	// ErrIO covers a disk read or write that came back short or failed.
	ErrIO = errors.New("simplefs: io error")
)
