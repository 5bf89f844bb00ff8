package bufpool

import (
	"errors"
	"fmt"

	"github.com/uw-cs564/badgerdb/pagefile"
)

// ErrBufferExceeded is returned by allocBuf when every frame is pinned and
// no victim could be found within the 2N step bound.
var ErrBufferExceeded = errors.New("bufpool: buffer exceeded, all frames pinned")

// PageNotPinnedError is raised by unPinPage when the target frame's pin
// count is already zero.
type PageNotPinnedError struct {
	Filename string
	PageNo   pagefile.PageID
	FrameNo  FrameID
}

func (e *PageNotPinnedError) Error() string {
	return fmt.Sprintf("bufpool: unpin of already-unpinned page %d (frame %d) in %s",
		e.PageNo, e.FrameNo, e.Filename)
}

// PagePinnedError is raised by flushFile when a frame belonging to the
// target file is still pinned.
type PagePinnedError struct {
	Filename string
	PageNo   pagefile.PageID
	FrameNo  FrameID
}

func (e *PagePinnedError) Error() string {
	return fmt.Sprintf("bufpool: cannot flush pinned page %d (frame %d) in %s",
		e.PageNo, e.FrameNo, e.Filename)
}

// BadBufferError is raised by flushFile when it finds a descriptor whose
// file matches but whose valid bit says the descriptor should not exist —
// an invariant violation, not a normal control-flow condition.
type BadBufferError struct {
	FrameNo FrameID
	Dirty   bool
	Valid   bool
	RefBit  bool
}

func (e *BadBufferError) Error() string {
	return fmt.Sprintf("bufpool: corrupt descriptor for frame %d (valid=%v dirty=%v refbit=%v)",
		e.FrameNo, e.Valid, e.Dirty, e.RefBit)
}

// hashNotFoundError signals a Page Index miss. It is an expected control
// signal inside readPage, unPinPage, and disposePage, and never leaks past
// the Buffer Manager API (spec.md §7).
type hashNotFoundError struct {
	file   pagefile.PageFile
	pageNo pagefile.PageID
}

func (e *hashNotFoundError) Error() string {
	return fmt.Sprintf("bufpool: no entry for page %d in %s", e.pageNo, e.file.Filename())
}

// hashAlreadyPresentError is raised by pageIndex.insert when the key exists.
// It is only ever caller-visible as a bug: ReadPage inserts only after a
// lookup miss, and AllocPage only inserts a page number the file has just
// allocated.
type hashAlreadyPresentError struct {
	file   pagefile.PageFile
	pageNo pagefile.PageID
}

func (e *hashAlreadyPresentError) Error() string {
	return fmt.Sprintf("bufpool: entry for page %d in %s already present", e.pageNo, e.file.Filename())
}

func isHashNotFound(err error) bool {
	var e *hashNotFoundError
	return errors.As(err, &e)
}
