package hnsw

// Stats summarizes the index's current shape. Grounded on the
// teacher's HNSW.Stats(), reshaped from its map[string]interface{}
// into a typed struct to match this package's other report types
// (ValidationReport).
type Stats struct {
	TotalNodes       int
	ActiveNodes      int
	DeletedNodes     int
	TotalEdges       int
	AvgEdgesPerNode  float64
	MaxLevel         int
	LevelDistribution map[int]int
	EntryPoint       int64
	HasEntryPoint    bool
	M                int
	EfConstruction   int
}

// Stats walks every node (including tombstoned ones, to report
// DeletedNodes) and returns a snapshot of the graph's size, edge
// count, and per-level population. Callers needing a consistent
// snapshot under concurrent writers should hold a read slot
// (AcquireReadSlot) for the duration.
func (idx *Index) Stats() Stats {
	s := Stats{
		LevelDistribution: make(map[int]int),
		M:                 idx.M,
		EfConstruction:    idx.efConstruction,
	}
	if idx.head != nil {
		s.EntryPoint = idx.head.id
		s.HasEntryPoint = true
	}

	s.TotalNodes = len(idx.nodes)
	for _, n := range idx.nodes {
		if n.Deleted() {
			s.DeletedNodes++
			continue
		}
		s.ActiveNodes++
		if n.level > s.MaxLevel {
			s.MaxLevel = n.level
		}
		s.LevelDistribution[n.level]++
		for _, neighbors := range n.neighbors {
			s.TotalEdges += len(neighbors)
		}
	}

	if s.ActiveNodes > 0 {
		s.AvgEdgesPerNode = float64(s.TotalEdges) / float64(s.ActiveNodes)
	}
	return s
}
