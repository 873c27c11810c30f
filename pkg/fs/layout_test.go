package fs

import "testing"

func TestGeometryFor(t *testing.T) {
	cases := []struct {
		blocks          uint32
		wantInodeBlocks uint32
		wantInodes      uint32
		wantDataStart   uint32
	}{
		{5, 1, 128, 2},
		{10, 1, 128, 2},
		{11, 2, 256, 3},
		{20, 2, 256, 3},
		{100, 10, 1280, 11},
		{101, 11, 1408, 12},
	}

	for _, c := range cases {
		inodeBlocks, inodes, dataStart := geometryFor(c.blocks)
		if inodeBlocks != c.wantInodeBlocks {
			t.Errorf("geometryFor(%d).inodeBlocks = %d, want %d", c.blocks, inodeBlocks, c.wantInodeBlocks)
		}
		if inodes != c.wantInodes {
			t.Errorf("geometryFor(%d).inodes = %d, want %d", c.blocks, inodes, c.wantInodes)
		}
		if dataStart != c.wantDataStart {
			t.Errorf("geometryFor(%d).dataStart = %d, want %d", c.blocks, dataStart, c.wantDataStart)
		}
	}
}
