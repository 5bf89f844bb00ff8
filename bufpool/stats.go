package bufpool

// Stats is a snapshot of the buffer pool's monotonically-increasing
// counters, safe to read after any public operation (spec.md §3).
type Stats struct {
	Accesses   uint64
	DiskReads  uint64
	DiskWrites uint64
}

// stats holds the live counters mutated exclusively by the Manager.
type stats struct {
	accesses   uint64
	diskReads  uint64
	diskWrites uint64
}

func (s *stats) snapshot() Stats {
	return Stats{Accesses: s.accesses, DiskReads: s.diskReads, DiskWrites: s.diskWrites}
}
