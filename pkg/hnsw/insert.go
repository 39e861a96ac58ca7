package hnsw

// Insert adds v under id with the given caller payload, acquiring the
// write lock for the entire operation (§4.A.3's "plain insert"). If
// efConstruction is 0, the index's default is used. A duplicate id
// returns ErrDuplicateID unless the index was built WithAllowOverwrite,
// in which case the existing node's links are torn down first and the
// new vector is inserted fresh under the same id.
func (idx *Index) Insert(v []float32, id int64, value interface{}, efConstruction int) (*Node, error) {
	if len(v) != idx.D {
		return nil, wrapError("Insert", ErrDimensionMismatch)
	}

	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	if existing, exists := idx.nodes[id]; exists {
		if !idx.allowOverwrite {
			return nil, wrapError("Insert", ErrDuplicateID)
		}
		idx.deleteLocked(existing)
	}
	if efConstruction <= 0 {
		efConstruction = idx.efConstruction
	}

	node := idx.newNode(v, id, value)
	idx.nodes[id] = node

	if idx.head == nil {
		idx.head = node
		idx.enumAppend(node)
		idx.nodeCount.Add(1)
		return node, nil
	}

	idx.linkNode(node, v, efConstruction)

	if node.level > idx.head.level {
		idx.head = node
	}
	idx.enumAppend(node)
	idx.nodeCount.Add(1)
	return node, nil
}

// newNode allocates a Node, encoding v into the index's quantization
// mode and caching its norm.
func (idx *Index) newNode(v []float32, id int64, value interface{}) *Node {
	node := &Node{
		id:        id,
		value:     value,
		level:     idx.sampleLevel(),
		norm:      vectorNorm(v),
	}
	switch idx.Quant {
	case QuantQ8:
		node.q8, node.q8Scale = encodeQ8(v)
	case QuantBin:
		node.bin = encodeBin(v)
	default:
		node.vector = append([]float32(nil), v...)
	}
	node.neighbors = make([][]int64, node.level+1)
	return node
}

// linkNode runs the §4.A.2 insert search+link algorithm for an
// already-allocated node against the current graph, assuming the
// write lock is held.
func (idx *Index) linkNode(node *Node, v []float32, efConstruction int) {
	entry := idx.greedyDescend(v, idx.head.id, idx.head.level, node.level)

	currNearest := []int64{entry}
	startLayer := node.level
	if idx.head.level < startLayer {
		startLayer = idx.head.level
	}

	for layer := startLayer; layer >= 0; layer-- {
		candidates := idx.searchLayer(v, currNearest, efConstruction, layer)
		m := idx.maxMForLayer(layer)
		neighbors := idx.selectNeighborsHeuristic(v, candidates, m)

		node.neighbors[layer] = neighbors
		for _, nbID := range neighbors {
			idx.addBackLink(nbID, node.id, layer)
			idx.repruneIfOversized(nbID, layer)
		}

		currNearest = neighbors
		if len(currNearest) == 0 {
			currNearest = []int64{entry}
		}
	}
}

// addBackLink adds a forward link from nb to node at layer, bumping
// nb's version.
func (idx *Index) addBackLink(nb, node int64, layer int) {
	n := idx.nodes[nb]
	if n == nil || layer >= len(n.neighbors) {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, existing := range n.neighbors[layer] {
		if existing == node {
			return
		}
	}
	n.neighbors[layer] = append(n.neighbors[layer], node)
	n.version.Add(1)
}

// repruneIfOversized re-prunes nb's neighbor list at layer if it now
// exceeds its cap, using nb's own vector as the query for the
// admission test.
func (idx *Index) repruneIfOversized(nbID int64, layer int) {
	n := idx.nodes[nbID]
	if n == nil || layer >= len(n.neighbors) {
		return
	}
	capN := idx.maxMForLayer(layer)

	n.mu.Lock()
	current := append([]int64(nil), n.neighbors[layer]...)
	n.mu.Unlock()

	if len(current) <= capN {
		return
	}

	query := vectorOf(idx, n)
	candidates := make([]candHeapItem, 0, len(current))
	for _, cid := range current {
		cn := idx.nodes[cid]
		if cn == nil {
			continue
		}
		candidates = append(candidates, candHeapItem{id: cid, dist: idx.distance(query, cn)})
	}
	pruned := idx.selectNeighborsHeuristic(query, candidates, capN)

	n.mu.Lock()
	n.neighbors[layer] = pruned
	n.version.Add(1)
	n.mu.Unlock()
}
