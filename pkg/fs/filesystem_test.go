package fs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Formatting a fresh disk leaves a valid superblock with no inode
// sections in the debug dump.
func TestFormatThenDebugOnFreshDisk(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem

	require.NoError(t, fsys.Format(disk))

	var out bytes.Buffer
	require.NoError(t, Debug(disk, &out))

	text := out.String()
	require.Contains(t, text, "magic number is valid")
	require.Contains(t, text, "5 blocks")
	require.Contains(t, text, "1 inode blocks")
	require.Contains(t, text, "128 inodes")
	require.NotContains(t, text, "Inode")
}

func TestFormatRejectsAlreadyMountedDisk(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	require.ErrorIs(t, fsys.Format(disk), ErrAlreadyMounted)
}

func TestMountRejectsAlreadyMountedDisk(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	require.ErrorIs(t, fsys.Mount(disk), ErrAlreadyMounted)
}

func TestMountRejectsBadGeometry(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))

	// corrupt the magic number
	var sb block
	require.NoError(t, disk.ReadBlock(0, sb[:]))
	sb[0] ^= 0xFF
	require.NoError(t, disk.WriteBlock(0, sb[:]))

	require.ErrorIs(t, fsys.Mount(disk), ErrBadGeometry)
	require.False(t, fsys.Mounted())
}

func TestMountReconstructsBitmap(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	inode := fsys.Create()
	require.EqualValues(t, 0, inode)

	payload := bytes.Repeat([]byte{0x7A}, 965)
	written := fsys.Write(uint32(inode), payload, len(payload), 0)
	require.EqualValues(t, len(payload), written)

	fsys.Unmount()
	require.NoError(t, fsys.Mount(disk))

	require.EqualValues(t, len(payload), fsys.Stat(uint32(inode)))
	require.EqualValues(t, -1, fsys.Stat(1))

	// block 0 (super) and block 1 (the sole inode-table block) are
	// never free; the single data block used by the file isn't either.
	require.False(t, fsys.free[0])
	require.False(t, fsys.free[1])

	in, err := fsys.loadInode(uint32(inode))
	require.NoError(t, err)
	require.False(t, fsys.free[in.Direct[0]])

	// every other data block remains free
	freeCount := 0
	for i := uint32(2); i < disk.Blocks(); i++ {
		if fsys.free[i] {
			freeCount++
		}
	}
	require.Equal(t, int(disk.Blocks())-2-1, freeCount)
}

// Create/remove churn against a disk that already has inode 1 valid.
func TestCreateRemoveChurn(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	// simulate a pre-built image where inode 1 is already valid: create
	// inode 0 and inode 1, then free inode 0's slot back up.
	first := fsys.Create()
	require.EqualValues(t, 0, first)
	preexisting := fsys.Create()
	require.EqualValues(t, 1, preexisting)
	require.True(t, fsys.Remove(uint32(first)))

	a := fsys.Create()
	require.EqualValues(t, 0, a)
	b := fsys.Create()
	require.EqualValues(t, 2, b)
	c := fsys.Create()
	require.EqualValues(t, 3, c)

	require.True(t, fsys.Remove(uint32(a)))
	require.False(t, fsys.Remove(uint32(a)), "removing an already-invalid inode must fail")

	require.True(t, fsys.Remove(uint32(preexisting)))
	require.True(t, fsys.Remove(uint32(c)))

	var out bytes.Buffer
	require.NoError(t, Debug(disk, &out))
	text := out.String()

	require.Equal(t, 1, strings.Count(text, "Inode "))
	require.Contains(t, text, "Inode 2:")
	require.Contains(t, text, "size: 0 bytes")
}

func TestRemoveUnknownOrInvalidInodeFails(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	require.False(t, fsys.Remove(0))
	require.False(t, fsys.Remove(1000))
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	disk := newMemDisk(20)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	inode := fsys.Create()
	require.GreaterOrEqual(t, inode, int64(0))

	payload := make([]byte, 27160)
	for i := range payload {
		payload[i] = byte(i % 251)
	}

	written := fsys.Write(uint32(inode), payload, len(payload), 0)
	require.EqualValues(t, len(payload), written)
	require.EqualValues(t, len(payload), fsys.Stat(uint32(inode)))

	readBuf := make([]byte, len(payload))
	got := fsys.Read(uint32(inode), readBuf, len(readBuf), 0)
	require.EqualValues(t, len(payload), got)
	require.Equal(t, payload, readBuf)
}

func TestWriteAtOffsetGrowsSizeOnlyWhenPastEnd(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	inode := fsys.Create()

	first := fsys.Write(uint32(inode), []byte("hello world"), 11, 0)
	require.EqualValues(t, 11, first)
	require.EqualValues(t, 11, fsys.Stat(uint32(inode)))

	// overwrite in the middle: size must not shrink or reset
	second := fsys.Write(uint32(inode), []byte("XXX"), 3, 2)
	require.EqualValues(t, 3, second)
	require.EqualValues(t, 11, fsys.Stat(uint32(inode)))

	readBuf := make([]byte, 11)
	n := fsys.Read(uint32(inode), readBuf, 11, 0)
	require.EqualValues(t, 11, n)
	require.Equal(t, "heXXX world", string(readBuf))
}

func TestReadPastEndOfFileReturnsZero(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	inode := fsys.Create()
	fsys.Write(uint32(inode), []byte("abc"), 3, 0)

	buf := make([]byte, 10)
	require.EqualValues(t, 0, fsys.Read(uint32(inode), buf, 10, 3))
	require.EqualValues(t, 0, fsys.Read(uint32(inode), buf, 10, 1000))
}

// A 5-block image has 3 usable data blocks; a single oversized write
// stops at the free-block boundary and reports a partial write, not a
// fatal error.
func TestWriteStopsWhenDiskIsFull(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	inode := fsys.Create()

	payload := bytes.Repeat([]byte{0x42}, 4*BlockSize)
	written := fsys.Write(uint32(inode), payload, len(payload), 0)

	require.EqualValues(t, 3*BlockSize, written)
	require.EqualValues(t, 3*BlockSize, fsys.Stat(uint32(inode)))

	for i := range fsys.free {
		require.False(t, fsys.free[i], "block %d should be in use", i)
	}
}

func TestStatOfInvalidInodeIsMinusOne(t *testing.T) {
	disk := newMemDisk(5)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	require.EqualValues(t, -1, fsys.Stat(0))
}

func TestOperationsFailWhenUnmounted(t *testing.T) {
	var fsys FileSystem

	require.EqualValues(t, -1, fsys.Create())
	require.False(t, fsys.Remove(0))
	require.EqualValues(t, -1, fsys.Stat(0))
	require.EqualValues(t, -1, fsys.Read(0, make([]byte, 1), 1, 0))
	require.EqualValues(t, -1, fsys.Write(0, []byte("x"), 1, 0))
}

func TestRemoveFreesIndirectBlock(t *testing.T) {
	disk := newMemDisk(20)
	var fsys FileSystem
	require.NoError(t, fsys.Format(disk))
	require.NoError(t, fsys.Mount(disk))

	inode := fsys.Create()
	payload := bytes.Repeat([]byte{0x01}, (PointersPerInode+2)*BlockSize)
	written := fsys.Write(uint32(inode), payload, len(payload), 0)
	require.EqualValues(t, len(payload), written)

	in, err := fsys.loadInode(uint32(inode))
	require.NoError(t, err)
	require.NotZero(t, in.Indirect)

	require.True(t, fsys.Remove(uint32(inode)))

	for i := uint32(0); i < disk.Blocks(); i++ {
		if i == 0 {
			continue
		}
		if i <= fsys.meta.InodeBlocks {
			continue
		}
		require.True(t, fsys.free[i], "block %d should have been freed", i)
	}
}
