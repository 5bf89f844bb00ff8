package bufpool

import (
	"fmt"
	"sync"

	"github.com/uw-cs564/badgerdb/pagefile"
)

// fakeFile is an in-memory pagefile.PageFile used to exercise the Manager
// without touching disk. Its identity for Page Index purposes is its own
// pointer, exactly like pagefile.DiskFile.
type fakeFile struct {
	mu       sync.Mutex
	name     string
	pageSize int
	nextID   pagefile.PageID
	pages    map[pagefile.PageID][]byte
	deleted  map[pagefile.PageID]bool
	writes   []pagefile.PageID
}

func newFakeFile(name string, pageSize int) *fakeFile {
	return &fakeFile{
		name:     name,
		pageSize: pageSize,
		nextID:   1,
		pages:    make(map[pagefile.PageID][]byte),
		deleted:  make(map[pagefile.PageID]bool),
	}
}

func (f *fakeFile) AllocatePage() (*pagefile.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID
	f.nextID++
	buf := make([]byte, f.pageSize)
	f.pages[id] = buf
	return pagefile.NewPageFromBytes(id, buf), nil
}

// seed installs page content directly, as if it already existed on disk,
// without going through AllocatePage. Used by tests that want deterministic
// page numbers.
func (f *fakeFile) seed(id pagefile.PageID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.pages[id]; !ok {
		f.pages[id] = make([]byte, f.pageSize)
	}
	if id >= f.nextID {
		f.nextID = id + 1
	}
}

func (f *fakeFile) ReadPage(pageNo pagefile.PageID) (*pagefile.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleted[pageNo] {
		return nil, fmt.Errorf("fakefile: page %d deleted", pageNo)
	}
	data, ok := f.pages[pageNo]
	if !ok {
		return nil, fmt.Errorf("fakefile: page %d does not exist", pageNo)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return pagefile.NewPageFromBytes(pageNo, cp), nil
}

func (f *fakeFile) WritePage(p *pagefile.Page) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleted[p.PageNumber()] {
		return fmt.Errorf("fakefile: cannot write deleted page %d", p.PageNumber())
	}
	cp := make([]byte, len(p.Bytes()))
	copy(cp, p.Bytes())
	f.pages[p.PageNumber()] = cp
	f.writes = append(f.writes, p.PageNumber())
	return nil
}

func (f *fakeFile) DeletePage(pageNo pagefile.PageID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted[pageNo] = true
	return nil
}

func (f *fakeFile) Filename() string {
	return f.name
}

var _ pagefile.PageFile = (*fakeFile)(nil)
