package fs

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// BlockDevice is the interface FileSystem speaks to the underlying
// storage through. Disk (host-file-backed) and memDisk (in-memory, used
// by tests) both implement it.
type BlockDevice interface {
	ReadBlock(block uint32, buf []byte) error
	WriteBlock(block uint32, buf []byte) error
	Blocks() uint32
}

// Disk is a block-addressed store backed by a host file of exactly
// blocks*BlockSize bytes. Reads and writes are sanity-checked whole-block
// transfers; both are counted.
type Disk struct {
	file   *os.File
	blocks uint32
	reads  uint64
	writes uint64
}

// Open creates or opens the backing file at path read/write,
// size-provisions it to exactly blocks*BlockSize bytes, and takes an
// exclusive advisory lock on it so a second Open of the same path fails
// fast instead of racing with this one.
func Open(path string, blocks uint32) (*Disk, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("disk open: %w", err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		return nil, fmt.Errorf("disk open: flock: %w", err)
	}

	if err := file.Truncate(int64(blocks) * BlockSize); err != nil {
		file.Close()
		return nil, fmt.Errorf("disk open: truncate: %w", err)
	}

	return &Disk{file: file, blocks: blocks}, nil
}

// Close releases the file handle. Counters are not persisted.
func (d *Disk) Close() error {
	if d == nil || d.file == nil {
		return nil
	}
	unix.Flock(int(d.file.Fd()), unix.LOCK_UN)
	err := d.file.Close()
	d.file = nil
	return err
}

// Blocks returns the number of blocks this disk was opened with.
func (d *Disk) Blocks() uint32 {
	return d.blocks
}

// Reads returns the number of successful ReadBlock calls so far.
func (d *Disk) Reads() uint64 { return d.reads }

// Writes returns the number of successful WriteBlock calls so far.
func (d *Disk) Writes() uint64 { return d.writes }

func (d *Disk) sanityCheck(blockNum uint32, buf []byte) error {
	if d == nil || d.file == nil {
		return ErrBadDisk
	}
	if blockNum >= d.blocks {
		return ErrBadDisk
	}
	if buf == nil {
		return ErrBadDisk
	}
	return nil
}

// ReadBlock reads exactly BlockSize bytes from block blockNum into buf.
func (d *Disk) ReadBlock(blockNum uint32, buf []byte) error {
	if err := d.sanityCheck(blockNum, buf); err != nil {
		return err
	}
	n, err := d.file.ReadAt(buf[:BlockSize], int64(blockNum)*BlockSize)
	if err != nil || n != BlockSize {
		return fmt.Errorf("%w: short read at block %d", ErrIO, blockNum)
	}
	d.reads++
	return nil
}

// WriteBlock writes exactly BlockSize bytes from buf to block blockNum.
func (d *Disk) WriteBlock(blockNum uint32, buf []byte) error {
	if err := d.sanityCheck(blockNum, buf); err != nil {
		return err
	}
	n, err := d.file.WriteAt(buf[:BlockSize], int64(blockNum)*BlockSize)
	if err != nil || n != BlockSize {
		return fmt.Errorf("%w: short write at block %d", ErrIO, blockNum)
	}
	d.writes++
	return nil
}

// memDisk is an in-memory BlockDevice backed by a byte slice, honoring the
// same sanity-check contract as Disk so tests exercise identical failure
// semantics without a backing file.
type memDisk struct {
	buf    []byte
	blocks uint32
	reads  uint64
	writes uint64
}

func newMemDisk(blocks uint32) *memDisk {
	return &memDisk{buf: make([]byte, uint64(blocks)*BlockSize), blocks: blocks}
}

func (d *memDisk) Blocks() uint32 { return d.blocks }

func (d *memDisk) sanityCheck(blockNum uint32, buf []byte) error {
	if d == nil {
		return ErrBadDisk
	}
	if blockNum >= d.blocks {
		return ErrBadDisk
	}
	if buf == nil {
		return ErrBadDisk
	}
	return nil
}

func (d *memDisk) ReadBlock(blockNum uint32, buf []byte) error {
	if err := d.sanityCheck(blockNum, buf); err != nil {
		return err
	}
	copy(buf[:BlockSize], d.buf[uint64(blockNum)*BlockSize:uint64(blockNum+1)*BlockSize])
	d.reads++
	return nil
}

func (d *memDisk) WriteBlock(blockNum uint32, buf []byte) error {
	if err := d.sanityCheck(blockNum, buf); err != nil {
		return err
	}
	copy(d.buf[uint64(blockNum)*BlockSize:uint64(blockNum+1)*BlockSize], buf[:BlockSize])
	d.writes++
	return nil
}
