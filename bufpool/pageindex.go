package bufpool

import (
	"encoding/binary"
	"hash/fnv"
	"reflect"

	"github.com/uw-cs564/badgerdb/pagefile"
)

// pageKey is the Page Index's key: a (file, pageNo) pair. File identity is
// the PageFile interface value itself — comparing two pageKeys with == also
// compares the underlying *DiskFile pointers, never filenames.
type pageKey struct {
	file   pagefile.PageFile
	pageNo pagefile.PageID
}

type bucketEntry struct {
	key   pageKey
	frame FrameID
	next  *bucketEntry
}

// pageIndex is the associative (file, pageNo) -> frameNo map described in
// spec.md §3/§4.2. It is a hand-rolled chaining hash table, sized to
// roughly 1.2x the frame count and rounded down to an odd number purely to
// spread collisions, the way the original source specifies — a plain Go map
// would hide that sizing decision entirely.
type pageIndex struct {
	buckets []*bucketEntry
	count   int
}

func newPageIndex(numFrames int) *pageIndex {
	n := (numFrames * 12) / 10
	if n < 1 {
		n = 1
	}
	if n%2 == 0 {
		n--
	}
	if n < 1 {
		n = 1
	}
	return &pageIndex{buckets: make([]*bucketEntry, n)}
}

// hash combines the file's handle identity and the page number the same way
// the teacher's BlockId.HashCode combines a filename and block number: fnv
// over the concatenated byte representations.
func (h *pageIndex) hash(k pageKey) int {
	fh := fnv.New64a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(reflect.ValueOf(k.file).Pointer()))
	fh.Write(buf[:])
	binary.BigEndian.PutUint64(buf[:], uint64(k.pageNo))
	fh.Write(buf[:])
	return int(fh.Sum64() % uint64(len(h.buckets)))
}

func (h *pageIndex) find(k pageKey) (*bucketEntry, *bucketEntry, int) {
	idx := h.hash(k)
	var prev *bucketEntry
	for e := h.buckets[idx]; e != nil; e = e.next {
		if e.key == k {
			return e, prev, idx
		}
		prev = e
	}
	return nil, prev, idx
}

// insert fails with hashAlreadyPresentError if the key exists.
func (h *pageIndex) insert(k pageKey, frame FrameID) error {
	if e, _, idx := h.find(k); e != nil {
		return &hashAlreadyPresentError{file: k.file, pageNo: k.pageNo}
	} else {
		h.buckets[idx] = &bucketEntry{key: k, frame: frame, next: h.buckets[idx]}
		h.count++
		return nil
	}
}

// lookup fails with hashNotFoundError if the key is absent.
func (h *pageIndex) lookup(k pageKey) (FrameID, error) {
	if e, _, _ := h.find(k); e != nil {
		return e.frame, nil
	}
	return 0, &hashNotFoundError{file: k.file, pageNo: k.pageNo}
}

// remove fails with hashNotFoundError if the key is absent.
func (h *pageIndex) remove(k pageKey) error {
	idx := h.hash(k)
	var prev *bucketEntry
	for e := h.buckets[idx]; e != nil; e = e.next {
		if e.key == k {
			if prev == nil {
				h.buckets[idx] = e.next
			} else {
				prev.next = e.next
			}
			h.count--
			return nil
		}
		prev = e
	}
	return &hashNotFoundError{file: k.file, pageNo: k.pageNo}
}
