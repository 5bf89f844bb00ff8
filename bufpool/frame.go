package bufpool

import (
	"fmt"

	"github.com/uw-cs564/badgerdb/pagefile"
)

// FrameID is a frame's own index within the pool, 0..N-1.
type FrameID int

// descriptor is the per-frame metadata described in spec.md §3. The frame's
// byte buffer itself lives in framePool, indexed by the same FrameID.
type descriptor struct {
	frameNo FrameID
	file    pagefile.PageFile
	pageNo  pagefile.PageID
	pinCnt  int
	dirty   bool
	valid   bool
	refbit  bool
}

func newDescriptor(frameNo FrameID) *descriptor {
	return &descriptor{frameNo: frameNo}
}

// set installs a page identity into the descriptor: valid=true, pinCnt=1,
// dirty=false, refbit=false.
func (d *descriptor) set(file pagefile.PageFile, pageNo pagefile.PageID) {
	d.file = file
	d.pageNo = pageNo
	d.valid = true
	d.pinCnt = 1
	d.dirty = false
	d.refbit = false
}

// clear restores the invalid state (Invariant 1 of spec.md §3).
func (d *descriptor) clear() {
	d.file = nil
	d.pageNo = 0
	d.pinCnt = 0
	d.dirty = false
	d.valid = false
	d.refbit = false
}

func (d *descriptor) String() string {
	if !d.valid {
		return fmt.Sprintf("frame %d: free", d.frameNo)
	}
	return fmt.Sprintf("frame %d: file=%s page=%d pinCnt=%d dirty=%v refbit=%v",
		d.frameNo, d.file.Filename(), d.pageNo, d.pinCnt, d.dirty, d.refbit)
}
