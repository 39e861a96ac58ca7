package hnsw

import "runtime"

// Disposer is called once a deleted node's payload is safe to free:
// every reader slot's recorded epoch has advanced past the deletion
// epoch (§4.A.3's deferred reclamation).
type Disposer func(value interface{})

// DeleteNode tombstones node, repairs every neighbor's back-links at
// every layer, reassigns the head if necessary, unlinks node from the
// enumeration list, and defers disposer until every live reader slot
// has advanced past the deletion epoch.
func (idx *Index) DeleteNode(node *Node, disposer Disposer) {
	idx.writeMu.Lock()

	if node.Deleted() {
		idx.writeMu.Unlock()
		return
	}

	idx.deleteLocked(node)
	idx.writeMu.Unlock()

	idx.deferReclaim(node, disposer)
}

// deleteLocked runs the tombstone, neighbor repair, head reassignment,
// and enumeration unlink steps of a deletion. The caller must hold
// writeMu and must not call this on an already-deleted node; it does
// not run deferred reclamation, since a fresh overwrite (Insert's
// AllowOverwrite path) has no disposer to invoke.
func (idx *Index) deleteLocked(node *Node) {
	epoch := idx.epoch.Add(1)
	node.deleted.Store(true)
	node.epoch.Store(epoch)
	node.version.Add(1)

	for layer := 0; layer < len(node.neighbors); layer++ {
		node.mu.Lock()
		victims := append([]int64(nil), node.neighbors[layer]...)
		node.mu.Unlock()

		capN := idx.maxMForLayer(layer)
		for _, nbID := range victims {
			nb := idx.nodes[nbID]
			if nb == nil {
				continue
			}
			idx.repairNeighbor(nb, node, layer, capN)
		}
	}

	if idx.head == node {
		idx.reassignHead(node)
	}

	idx.enumRemove(node)
	idx.nodeCount.Add(-1)
	delete(idx.nodes, node.id)
}

// Free tears down the entire index, invoking disposer once for every
// live node's payload in enumeration order, then resetting the index
// to empty. Unlike DeleteNode it does not wait for reader slots to
// drain: callers must ensure no reader holds a slot before calling it,
// since the index is unusable afterward.
func (idx *Index) Free(disposer Disposer) {
	idx.writeMu.Lock()
	defer idx.writeMu.Unlock()

	if disposer != nil {
		for n := idx.enumHead; n != nil; n = n.next {
			if !n.Deleted() {
				disposer(n.value)
			}
		}
	}

	idx.nodes = make(map[int64]*Node)
	idx.head = nil
	idx.enumHead = nil
	idx.enumTail = nil
	idx.nodeCount.Store(0)
}

// repairNeighbor removes the back-link to the deleted node from nb's
// layer list, then re-prunes nb using its surviving candidates union
// the deleted node's own neighbors at that layer, up to cap.
func (idx *Index) repairNeighbor(nb *Node, deleted *Node, layer int, capN int) {
	if layer >= len(nb.neighbors) {
		return
	}

	nb.mu.Lock()
	surviving := make([]int64, 0, len(nb.neighbors[layer]))
	for _, id := range nb.neighbors[layer] {
		if id != deleted.id {
			surviving = append(surviving, id)
		}
	}
	nb.mu.Unlock()

	if layer < len(deleted.neighbors) {
		deleted.mu.Lock()
		for _, id := range deleted.neighbors[layer] {
			if id == nb.id || id == deleted.id {
				continue
			}
			found := false
			for _, s := range surviving {
				if s == id {
					found = true
					break
				}
			}
			if !found {
				surviving = append(surviving, id)
			}
		}
		deleted.mu.Unlock()
	}

	query := vectorOf(idx, nb)
	candidates := make([]candHeapItem, 0, len(surviving))
	for _, cid := range surviving {
		cn := idx.nodes[cid]
		if cn == nil || cn.Deleted() {
			continue
		}
		candidates = append(candidates, candHeapItem{id: cid, dist: idx.distance(query, cn)})
	}
	pruned := idx.selectNeighborsHeuristic(query, candidates, capN)

	nb.mu.Lock()
	nb.neighbors[layer] = pruned
	nb.mu.Unlock()
	nb.version.Add(1)
}

// reassignHead picks the live node with the highest level as the new
// head, ties broken by earliest enumeration order. old must currently
// be the head.
func (idx *Index) reassignHead(old *Node) {
	var best *Node
	for n := idx.enumHead; n != nil; n = n.next {
		if n == old || n.Deleted() {
			continue
		}
		if best == nil || n.level > best.level {
			best = n
		}
	}
	idx.head = best
}

// deferReclaim blocks until every reader slot's recorded epoch is past
// node's tombstone epoch, then invokes disposer. Per §4.A.3 this is
// the only suspension point outside AcquireReadSlot/the write lock,
// and it must run outside the write lock so readers can progress.
func (idx *Index) deferReclaim(node *Node, disposer Disposer) {
	if disposer == nil {
		return
	}
	for {
		clear := true
		for i := range idx.slots {
			if idx.slots[i].active.Load() && idx.slots[i].epoch.Load() <= node.epoch.Load() {
				clear = false
				break
			}
		}
		if clear {
			disposer(node.value)
			return
		}
		runtime.Gosched()
	}
}
