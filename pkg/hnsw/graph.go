package hnsw

import (
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// lockedRand wraps a *rand.Rand with a mutex; level sampling happens
// under the write lock during a plain Insert but also during
// PrepareInsert, which holds only a read slot.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand(seed int64) *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rng.Float64()
}

// readerSlot is one entry of the fixed-size reader slot table (§4.A.3).
type readerSlot struct {
	active atomic.Bool
	epoch  atomic.Uint64
}

// NewIndex creates an empty index over D-dimensional vectors using the
// given quantization mode and default parameters (M=16, a
// DefaultReaderSlots-entry reader slot table).
func NewIndex(d int, quant Quantization) *Index {
	idx := &Index{
		D:              d,
		Quant:          quant,
		M:              DefaultM,
		maxM0:          DefaultM * 2,
		efConstruction: DefaultEfConstruction,
		mL:             1.0 / math.Log(float64(DefaultM)),
		nodes:          make(map[int64]*Node),
		rng:            newLockedRand(time.Now().UnixNano()),
		slots:          make([]readerSlot, DefaultReaderSlots),
	}
	return idx
}

// WithM overrides the per-layer neighbor cap M (and layer-0 cap 2M).
// Must be called before any Insert.
func (idx *Index) WithM(m int) *Index {
	idx.M = m
	idx.maxM0 = m * 2
	idx.mL = 1.0 / math.Log(float64(m))
	return idx
}

// WithEfConstruction overrides the default ef_construction used when
// the caller passes 0 to Insert/PrepareInsert.
func (idx *Index) WithEfConstruction(ef int) *Index {
	idx.efConstruction = ef
	return idx
}

// WithReaderSlots overrides the size of the fixed reader slot table
// used by AcquireReadSlot. Must be called before any reader acquires a
// slot.
func (idx *Index) WithReaderSlots(n int) *Index {
	idx.slots = make([]readerSlot, n)
	return idx
}

// WithAllowOverwrite switches Insert's duplicate-id behavior from
// ErrDuplicateID to overwrite semantics: the existing node's links are
// torn down first, then the new vector is inserted fresh under the
// same id.
func (idx *Index) WithAllowOverwrite(allow bool) *Index {
	idx.allowOverwrite = allow
	return idx
}

// Len returns the number of live (non-tombstoned) nodes.
func (idx *Index) Len() int { return int(idx.nodeCount.Load()) }

// sampleLevel draws ℓ = ⌊−ln(U(0,1))·mL⌋, capped at MaxLevel.
func (idx *Index) sampleLevel() int {
	u := idx.rng.Float64()
	if u <= 0 {
		u = math.SmallestNonzeroFloat64
	}
	level := int(math.Floor(-math.Log(u) * idx.mL))
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}

// maxMForLayer returns M_l per §3 invariant 1: 2M at layer 0, M above.
func (idx *Index) maxMForLayer(layer int) int {
	if layer == 0 {
		return idx.maxM0
	}
	return idx.M
}

// enumAppend appends n to the intrusive enumeration list. Must be
// called under the write lock.
func (idx *Index) enumAppend(n *Node) {
	if idx.enumHead == nil {
		idx.enumHead = n
		idx.enumTail = n
		return
	}
	n.prev = idx.enumTail
	idx.enumTail.next = n
	idx.enumTail = n
}

// enumRemove unlinks n from the enumeration list. Must be called under
// the write lock.
func (idx *Index) enumRemove(n *Node) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		idx.enumHead = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		idx.enumTail = n.prev
	}
	n.prev, n.next = nil, nil
}

// Range calls fn for every live node in enumeration order, stopping
// early if fn returns false. Callers needing a consistent snapshot
// should hold a read slot (AcquireReadSlot) for the duration.
func (idx *Index) Range(fn func(n *Node) bool) {
	for n := idx.enumHead; n != nil; n = n.next {
		if n.Deleted() {
			continue
		}
		if !fn(n) {
			return
		}
	}
}

// GetNodeVector decodes n's stored vector into out, which must have
// length D. Decoding here is lossy for quantized modes and is intended
// only for caller inspection — search and insert never call this.
func (idx *Index) GetNodeVector(n *Node, out []float32) {
	var v []float32
	switch idx.Quant {
	case QuantQ8:
		v = decodeQ8(n.q8, n.q8Scale)
	case QuantBin:
		v = decodeBin(n.bin, idx.D)
	default:
		v = n.vector
	}
	copy(out, v)
}
