// Package bufpool implements the Buffer Pool Manager: a fixed-size pool of
// page frames, a page-to-frame index, a clock-sweep replacement engine, and
// the pin-count protocol described in spec.md. It is the mediation layer
// between pagefile.PageFile and in-memory clients.
package bufpool

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/uw-cs564/badgerdb/pagefile"
)

// Manager is the Buffer Manager API of spec.md §4.4.
type Manager struct {
	n           int
	pageSize    int
	descriptors []*descriptor
	pool        *framePool
	index       *pageIndex
	replacer    *clockReplacer
	stats       stats
	log         *zap.SugaredLogger
}

// New creates a Manager with n frames, each pageSize bytes. A nil logger is
// replaced with a no-op logger so callers never need to guard log calls.
func New(n, pageSize int, log *zap.SugaredLogger) *Manager {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	descriptors := make([]*descriptor, n)
	for i := range descriptors {
		descriptors[i] = newDescriptor(FrameID(i))
	}
	pool := newFramePool(n, pageSize)
	index := newPageIndex(n)
	m := &Manager{
		n:           n,
		pageSize:    pageSize,
		descriptors: descriptors,
		pool:        pool,
		index:       index,
		log:         log,
	}
	m.replacer = newClockReplacer(n, descriptors, pool, index, &m.stats, log)
	return m
}

// pageView returns a Page aliasing the live contents of frameNo: mutating it
// mutates the frame's buffer directly, matching "returned reference to the
// frame's buffer" in spec.md §4.4.1.
func (m *Manager) pageView(frameNo FrameID) *pagefile.Page {
	fr := m.descriptors[frameNo]
	return pagefile.NewPageFromBytes(fr.pageNo, m.pool.buffer(frameNo))
}

// ReadPage returns a pinned reference to the page's contents, loading it
// from file if not already resident (spec.md §4.4.1). Callers must
// eventually call UnpinPage once per successful ReadPage.
func (m *Manager) ReadPage(file pagefile.PageFile, pageNo pagefile.PageID) (*pagefile.Page, error) {
	key := pageKey{file: file, pageNo: pageNo}

	if frameNo, err := m.index.lookup(key); err == nil {
		fr := m.descriptors[frameNo]
		fr.refbit = true
		fr.pinCnt++
		m.stats.accesses++
		return m.pageView(frameNo), nil
	} else if !isHashNotFound(err) {
		return nil, err
	}

	frameNo, err := m.replacer.allocBuf()
	if err != nil {
		return nil, err
	}

	page, err := file.ReadPage(pageNo)
	if err != nil {
		return nil, fmt.Errorf("bufpool: read page %d from %s: %w", pageNo, file.Filename(), err)
	}
	m.stats.diskReads++
	copy(m.pool.buffer(frameNo), page.Bytes())

	if err := m.index.insert(key, frameNo); err != nil {
		return nil, err
	}
	m.descriptors[frameNo].set(file, pageNo)
	m.stats.accesses++

	m.log.Debugw("loaded page", "file", file.Filename(), "page", pageNo, "frame", frameNo)
	return m.pageView(frameNo), nil
}

// AllocPage asks file for a new page, installs it pinned in a frame, and
// returns both the new page identifier and a reference to its contents
// (spec.md §4.4.2).
func (m *Manager) AllocPage(file pagefile.PageFile) (pagefile.PageID, *pagefile.Page, error) {
	p, err := file.AllocatePage()
	if err != nil {
		return 0, nil, fmt.Errorf("bufpool: allocate page in %s: %w", file.Filename(), err)
	}

	frameNo, err := m.replacer.allocBuf()
	if err != nil {
		return 0, nil, err
	}

	key := pageKey{file: file, pageNo: p.PageNumber()}
	if err := m.index.insert(key, frameNo); err != nil {
		return 0, nil, err
	}
	m.descriptors[frameNo].set(file, p.PageNumber())
	copy(m.pool.buffer(frameNo), p.Bytes())
	m.stats.accesses++

	m.log.Debugw("allocated page", "file", file.Filename(), "page", p.PageNumber(), "frame", frameNo)
	return p.PageNumber(), m.pageView(frameNo), nil
}

// UnpinPage decrements the frame's pin count and optionally marks it dirty
// (spec.md §4.4.3). An absent (file, pageNo) is a silent no-op.
func (m *Manager) UnpinPage(file pagefile.PageFile, pageNo pagefile.PageID, dirty bool) error {
	key := pageKey{file: file, pageNo: pageNo}
	frameNo, err := m.index.lookup(key)
	if err != nil {
		if isHashNotFound(err) {
			return nil
		}
		return err
	}

	fr := m.descriptors[frameNo]
	if fr.pinCnt == 0 {
		return &PageNotPinnedError{Filename: file.Filename(), PageNo: pageNo, FrameNo: frameNo}
	}
	fr.pinCnt--
	if dirty {
		fr.dirty = true
	}
	return nil
}

// FlushFile visits every frame belonging to file in ascending frame-index
// order, writes it back if dirty, then removes its index entry and
// invalidates it (spec.md §4.4.4). A pinned frame fails with
// PagePinnedError and an invalid one with BadBufferError; a failure aborts
// at the first offending frame, and frames already processed remain flushed.
func (m *Manager) FlushFile(file pagefile.PageFile) error {
	for frameNo := 0; frameNo < m.n; frameNo++ {
		fr := m.descriptors[frameNo]
		if fr.file != file {
			continue
		}

		if !fr.valid {
			return &BadBufferError{FrameNo: fr.frameNo, Dirty: fr.dirty, Valid: fr.valid, RefBit: fr.refbit}
		}
		if fr.pinCnt > 0 {
			return &PagePinnedError{Filename: file.Filename(), PageNo: fr.pageNo, FrameNo: fr.frameNo}
		}

		if fr.dirty {
			if err := file.WritePage(m.pageView(fr.frameNo)); err != nil {
				return fmt.Errorf("bufpool: flush page %d to %s: %w", fr.pageNo, file.Filename(), err)
			}
			m.stats.diskWrites++
			fr.dirty = false
		}

		if err := m.index.remove(pageKey{file: fr.file, pageNo: fr.pageNo}); err != nil && !isHashNotFound(err) {
			return err
		}
		fr.clear()
	}
	m.log.Infow("flushed file", "file", file.Filename())
	return nil
}

// DisposePage discards any resident copy of the page without writing it
// back, then asks file to delete it (spec.md §4.4.5).
func (m *Manager) DisposePage(file pagefile.PageFile, pageNo pagefile.PageID) error {
	key := pageKey{file: file, pageNo: pageNo}
	if frameNo, err := m.index.lookup(key); err == nil {
		_ = m.index.remove(key)
		m.descriptors[frameNo].clear()
	} else if !isHashNotFound(err) {
		return err
	}

	if err := file.DeletePage(pageNo); err != nil {
		return fmt.Errorf("bufpool: delete page %d from %s: %w", pageNo, file.Filename(), err)
	}
	return nil
}

// PrintSelf writes a diagnostic dump of every frame descriptor to w,
// followed by the count of valid frames (spec.md §4.4.6).
func (m *Manager) PrintSelf(w io.Writer) {
	valid := 0
	for _, fr := range m.descriptors {
		fmt.Fprintln(w, fr.String())
		if fr.valid {
			valid++
		}
	}
	fmt.Fprintf(w, "valid frames: %d/%d\n", valid, m.n)
}

// Stats returns a snapshot of the access/disk-read/disk-write counters.
func (m *Manager) Stats() Stats {
	return m.stats.snapshot()
}

// NumFrames returns the pool's fixed frame count.
func (m *Manager) NumFrames() int {
	return m.n
}
