package bufpool

import (
	"go.uber.org/zap"

	"github.com/uw-cs564/badgerdb/pagefile"
)

// clockReplacer is the Replacement Engine of spec.md §4.3: a second-chance
// clock sweep over the shared descriptor table. It owns only the clock hand;
// the descriptors, frame pool, and page index are shared with the Manager
// that constructed it, exactly as the teacher's Clock shares *Buffer values
// with its BufferMgr.
type clockReplacer struct {
	descriptors []*descriptor
	pool        *framePool
	index       *pageIndex
	st          *stats
	log         *zap.SugaredLogger
	clockHand   int
	n           int
}

func newClockReplacer(n int, descriptors []*descriptor, pool *framePool, index *pageIndex, st *stats, log *zap.SugaredLogger) *clockReplacer {
	return &clockReplacer{
		descriptors: descriptors,
		pool:        pool,
		index:       index,
		st:          st,
		log:         log,
		clockHand:   n - 1,
		n:           n,
	}
}

func (c *clockReplacer) advance() {
	c.clockHand = (c.clockHand + 1) % c.n
}

// allocBuf selects a victim frame per the decision order of spec.md §4.3,
// bounded to 2N step-actions (a step being a type-2 or type-3 visit).
func (c *clockReplacer) allocBuf() (FrameID, error) {
	steps := 0
	for {
		fr := c.descriptors[c.clockHand]
		c.advance()

		switch {
		case !fr.valid:
			return fr.frameNo, nil

		case fr.refbit:
			fr.refbit = false
			steps++

		case fr.pinCnt != 0:
			steps++

		case fr.dirty:
			if err := c.writeBack(fr); err != nil {
				return 0, err
			}
			c.unmap(fr)
			return fr.frameNo, nil

		default:
			c.unmap(fr)
			return fr.frameNo, nil
		}

		if steps >= 2*c.n {
			c.log.Warnw("buffer pool exhausted", "frames", c.n, "steps", steps)
			return 0, ErrBufferExceeded
		}
	}
}

// writeBack persists a dirty victim's contents before it is handed out,
// counting one disk write and one access (spec.md §4.3 decision 4).
func (c *clockReplacer) writeBack(fr *descriptor) error {
	page := pagefile.NewPageFromBytes(fr.pageNo, c.pool.buffer(fr.frameNo))
	if err := fr.file.WritePage(page); err != nil {
		return err
	}
	c.st.diskWrites++
	c.st.accesses++
	c.log.Debugw("wrote back dirty victim", "frame", fr.frameNo, "file", fr.file.Filename(), "page", fr.pageNo)
	return nil
}

// unmap removes a victim's Page Index entry and clears its descriptor,
// leaving it fully invalid so the caller is free to set(...) it without a
// stale mapping pointing at it (spec.md §9, "Eviction-clear symmetry").
func (c *clockReplacer) unmap(fr *descriptor) {
	_ = c.index.remove(pageKey{file: fr.file, pageNo: fr.pageNo})
	fr.clear()
}
