package hnsw

// ReadSlot identifies an acquired reader slot.
type ReadSlot int

// AcquireReadSlot finds a free slot, marks it active with the current
// epoch, and returns its index. Per §5, this is a suspension point
// when every slot is busy; this implementation spins rather than
// growing the table, since the table is sized generously by default
// (DefaultReaderSlots) and growth would require a write-lock pause
// anyway.
func (idx *Index) AcquireReadSlot() ReadSlot {
	for {
		for i := range idx.slots {
			if idx.slots[i].active.CompareAndSwap(false, true) {
				idx.slots[i].epoch.Store(idx.epoch.Load())
				return ReadSlot(i)
			}
		}
	}
}

// ReleaseReadSlot clears a previously acquired slot.
func (idx *Index) ReleaseReadSlot(s ReadSlot) {
	idx.slots[s].active.Store(false)
}

// candidateRef is one recorded (node, observed version) pair from the
// search phase of PrepareInsert, per §4.A.3.
type candidateRef struct {
	layer   int
	id      int64
	version uint64
}

// InsertContext is the result of PrepareInsert's lock-free search
// phase: everything TryCommitInsert needs to verify and link without
// repeating the search.
type InsertContext struct {
	node       *Node
	vector     []float32
	neighbors  [][]int64
	candidates []candidateRef
	headAtPrep *Node
}

// PrepareInsert runs the search phase of Insert (greedy descent plus a
// searchLayer per level) while holding only a read slot, recording the
// observed version of every candidate neighbor it selects. It performs
// no mutation. Call TryCommitInsert with the result to attempt the
// actual link; on failure the documented fallback is the plain locked
// Insert.
func (idx *Index) PrepareInsert(v []float32, id int64, value interface{}, efConstruction int) (*InsertContext, error) {
	if len(v) != idx.D {
		return nil, wrapError("PrepareInsert", ErrDimensionMismatch)
	}
	if efConstruction <= 0 {
		efConstruction = idx.efConstruction
	}

	slot := idx.AcquireReadSlot()
	defer idx.ReleaseReadSlot(slot)

	head := idx.head
	node := idx.newNode(v, id, value)

	ctx := &InsertContext{node: node, vector: v, headAtPrep: head}
	if head == nil {
		ctx.neighbors = make([][]int64, node.level+1)
		return ctx, nil
	}

	entry := idx.greedyDescend(v, head.id, head.level, node.level)
	currNearest := []int64{entry}
	startLayer := node.level
	if head.level < startLayer {
		startLayer = head.level
	}

	neighbors := make([][]int64, node.level+1)
	var refs []candidateRef

	for layer := startLayer; layer >= 0; layer-- {
		candidates := idx.searchLayer(v, currNearest, efConstruction, layer)
		m := idx.maxMForLayer(layer)
		selected := idx.selectNeighborsHeuristic(v, candidates, m)
		neighbors[layer] = selected

		for _, nbID := range selected {
			nb := idx.nodes[nbID]
			if nb == nil {
				continue
			}
			refs = append(refs, candidateRef{layer: layer, id: nbID, version: nb.Version()})
		}

		currNearest = selected
		if len(currNearest) == 0 {
			currNearest = []int64{entry}
		}
	}

	ctx.neighbors = neighbors
	ctx.candidates = refs
	return ctx, nil
}

// TryCommitInsert acquires the write lock and re-checks every recorded
// (node, version) pair from ctx. If any has changed, or if the head
// observed at prepare time no longer matches, it releases the lock and
// returns (nil, ErrCommitConflict) — a non-error the caller should
// treat as "retry with Insert". Otherwise it performs the bidirectional
// linking and enumeration-list insertion and returns the new node.
func (idx *Index) TryCommitInsert(ctx *InsertContext) (*Node, error) {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	if _, exists := idx.nodes[ctx.node.id]; exists {
		return nil, wrapError("TryCommitInsert", ErrDuplicateID)
	}
	if idx.head != ctx.headAtPrep {
		return nil, ErrCommitConflict
	}
	for _, ref := range ctx.candidates {
		nb := idx.nodes[ref.id]
		if nb == nil || nb.Deleted() || nb.Version() != ref.version {
			return nil, ErrCommitConflict
		}
	}

	node := ctx.node
	idx.nodes[node.id] = node
	node.neighbors = ctx.neighbors

	if idx.head == nil {
		idx.head = node
	} else {
		for layer, neighbors := range ctx.neighbors {
			for _, nbID := range neighbors {
				idx.addBackLink(nbID, node.id, layer)
				idx.repruneIfOversized(nbID, layer)
			}
		}
		if node.level > idx.head.level {
			idx.head = node
		}
	}

	idx.enumAppend(node)
	idx.nodeCount.Add(1)
	return node, nil
}
