package pagefile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// PageFile is the per-file on-disk page storage abstraction the buffer pool
// core consumes. Two PageFile values identify the same underlying file iff
// they are the same interface value — the buffer pool never compares
// filenames to decide file identity.
type PageFile interface {
	AllocatePage() (*Page, error)
	ReadPage(pageNo PageID) (*Page, error)
	WritePage(p *Page) error
	DeletePage(pageNo PageID) error
	Filename() string
}

// DiskFile is a disk-backed PageFile: one OS file holding fixed-size page
// slots, page numbers assigned sequentially starting at 1. Deleted pages are
// tombstoned rather than physically reclaimed, matching the teacher's
// append-only block file (kfile.FileMgr.Append/Read/Write).
type DiskFile struct {
	mu       sync.Mutex
	f        *os.File
	filename string
	pageSize int
	nextID   PageID
	deleted  map[PageID]bool
}

// OpenDiskFile opens (creating if necessary) a page file of pageSize-byte
// slots rooted at dir/name.
func OpenDiskFile(dir, name string, pageSize int) (*DiskFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("pagefile: create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("pagefile: open %s: %w", path, err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("pagefile: stat %s: %w", path, err)
	}
	slots := PageID(stat.Size() / int64(pageSize))
	return &DiskFile{
		f:        f,
		filename: name,
		pageSize: pageSize,
		nextID:   slots + 1,
		deleted:  make(map[PageID]bool),
	}, nil
}

func (d *DiskFile) offset(pageNo PageID) int64 {
	return int64(pageNo-1) * int64(d.pageSize)
}

// AllocatePage returns a new, empty page with a fresh stable identifier.
func (d *DiskFile) AllocatePage() (*Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	id := d.nextID
	d.nextID++

	p := NewPage(id, d.pageSize)
	if _, err := d.f.WriteAt(p.Bytes(), d.offset(id)); err != nil {
		return nil, fmt.Errorf("pagefile: allocate page %d in %s: %w", id, d.filename, err)
	}
	return p, nil
}

// ReadPage returns the page with the given identifier.
func (d *DiskFile) ReadPage(pageNo PageID) (*Page, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deleted[pageNo] || pageNo == InvalidPageID || pageNo >= d.nextID {
		return nil, fmt.Errorf("pagefile: page %d does not exist in %s", pageNo, d.filename)
	}

	buf := make([]byte, d.pageSize)
	n, err := d.f.ReadAt(buf, d.offset(pageNo))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("pagefile: read page %d from %s: %w", pageNo, d.filename, err)
	}
	if n != d.pageSize && err != io.EOF {
		return nil, fmt.Errorf("pagefile: short read for page %d in %s: got %d bytes", pageNo, d.filename, n)
	}
	return NewPageFromBytes(pageNo, buf), nil
}

// WritePage persists the page's current contents under its identifier.
func (d *DiskFile) WritePage(p *Page) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.deleted[p.PageNumber()] {
		return fmt.Errorf("pagefile: cannot write deleted page %d in %s", p.PageNumber(), d.filename)
	}
	if _, err := d.f.WriteAt(p.Bytes(), d.offset(p.PageNumber())); err != nil {
		return fmt.Errorf("pagefile: write page %d to %s: %w", p.PageNumber(), d.filename, err)
	}
	return nil
}

// DeletePage removes the page from the file.
func (d *DiskFile) DeletePage(pageNo PageID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if pageNo == InvalidPageID || pageNo >= d.nextID {
		return fmt.Errorf("pagefile: cannot delete unknown page %d in %s", pageNo, d.filename)
	}
	d.deleted[pageNo] = true
	return nil
}

// Filename returns the diagnostic identity of the file.
func (d *DiskFile) Filename() string {
	return d.filename
}

// Close releases the underlying OS file handle.
func (d *DiskFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.f.Close()
}

var _ PageFile = (*DiskFile)(nil)
