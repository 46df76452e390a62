package isolation

import "math/bits"

// Bound classifies a transposition table score.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower
	BoundUpper
)

// Entry is one cached search result.
type Entry struct {
	Hash       uint64
	Depth      int
	Score      int
	Bound      Bound
	Move       Move
	HasMove    bool
	Generation uint8
}

// Table is a Zobrist-hashed transposition table. It is created per
// top-level search call, shared by reference through the recursion,
// and never crosses calls.
type Table struct {
	entries map[uint64]Entry

	zobristPlayer    [Cells]uint64
	zobristAI        [Cells]uint64
	zobristDestroyed [Cells]uint64
	zobristTurn      uint64

	generation uint8
	maxEntries int

	Hits   uint64
	Misses uint64
}

const defaultTableEntries = 500_000

// NewTable seeds the Zobrist keys from a fixed LCG so hashes are
// deterministic across runs.
func NewTable() *Table {
	seed := uint64(0x123456789ABCDEF)
	next := func() uint64 {
		seed = seed*6364136223846793005 + 1442695040888963407
		return seed
	}

	t := &Table{
		entries:    make(map[uint64]Entry),
		maxEntries: defaultTableEntries,
	}
	for i := 0; i < Cells; i++ {
		t.zobristPlayer[i] = next()
		t.zobristAI[i] = next()
		t.zobristDestroyed[i] = next()
	}
	t.zobristTurn = next()
	return t
}

// Hash computes the full Zobrist hash of a state and side to move.
func (t *Table) Hash(s State, aiTurn bool) uint64 {
	var hash uint64
	if idx, ok := PieceIndex(s.Player); ok {
		hash ^= t.zobristPlayer[idx]
	}
	if idx, ok := PieceIndex(s.AI); ok {
		hash ^= t.zobristAI[idx]
	}
	for d := s.Destroyed; d != 0; d &= d - 1 {
		hash ^= t.zobristDestroyed[bits.TrailingZeros64(d)]
	}
	if aiTurn {
		hash ^= t.zobristTurn
	}
	return hash
}

// UpdateHash advances a hash incrementally after a move: XOR out the
// moved piece's old square, XOR in the new one, fold in newly
// destroyed cells, and flip the turn key. Equivalent to a full
// recomputation on the new state.
func (t *Table) UpdateHash(hash uint64, oldState, newState State, turnFlipped bool) uint64 {
	if idx, ok := PieceIndex(oldState.Player); ok {
		hash ^= t.zobristPlayer[idx]
	}
	if idx, ok := PieceIndex(newState.Player); ok {
		hash ^= t.zobristPlayer[idx]
	}
	if idx, ok := PieceIndex(oldState.AI); ok {
		hash ^= t.zobristAI[idx]
	}
	if idx, ok := PieceIndex(newState.AI); ok {
		hash ^= t.zobristAI[idx]
	}
	for d := newState.Destroyed &^ oldState.Destroyed; d != 0; d &= d - 1 {
		hash ^= t.zobristDestroyed[bits.TrailingZeros64(d)]
	}
	if turnFlipped {
		hash ^= t.zobristTurn
	}
	return hash
}

// Probe returns an entry when it can cause a cutoff at the requested
// depth, or when its stored move is still useful for ordering. The
// caller re-checks Depth and Bound before trusting the score.
func (t *Table) Probe(hash uint64, depth, alpha, beta int) (Entry, bool) {
	entry, ok := t.entries[hash]
	if !ok || entry.Hash != hash {
		t.Misses++
		return Entry{}, false
	}

	if entry.Depth >= depth {
		switch {
		case entry.Bound == BoundExact:
			t.Hits++
			return entry, true
		case entry.Bound == BoundLower && entry.Score >= beta:
			t.Hits++
			return entry, true
		case entry.Bound == BoundUpper && entry.Score <= alpha:
			t.Hits++
			return entry, true
		}
	}

	if entry.HasMove {
		t.Misses++
		return entry, true
	}
	t.Misses++
	return Entry{}, false
}

// Store inserts an entry under a depth-preferred replacement policy:
// deeper searches win, equal depth wins with an exact bound, and
// stale generations are always replaced.
func (t *Table) Store(hash uint64, depth, score int, bound Bound, move Move, hasMove bool) {
	if len(t.entries) >= t.maxEntries {
		t.evict()
	}

	if existing, ok := t.entries[hash]; ok {
		replace := depth > existing.Depth ||
			(depth == existing.Depth && bound == BoundExact) ||
			existing.Generation+2 < t.generation
		if !replace {
			return
		}
	}

	t.entries[hash] = Entry{
		Hash:       hash,
		Depth:      depth,
		Score:      score,
		Bound:      bound,
		Move:       move,
		HasMove:    hasMove,
		Generation: t.generation,
	}
}

// NewSearch stamps a new generation; existing entries stay usable but
// become eviction candidates.
func (t *Table) NewSearch() {
	t.generation++
	t.Hits = 0
	t.Misses = 0
}

// evict drops entries that are both old and shallow.
func (t *Table) evict() {
	minGeneration := t.generation - 1
	for hash, entry := range t.entries {
		if entry.Generation < minGeneration && entry.Depth < 6 {
			delete(t.entries, hash)
		}
	}
	// Degenerate case: a single generation filled the table.
	if len(t.entries) >= t.maxEntries {
		target := t.maxEntries * 3 / 4
		for hash, entry := range t.entries {
			if len(t.entries) <= target {
				break
			}
			if entry.Depth < 6 {
				delete(t.entries, hash)
			}
		}
	}
}

// Len reports the number of stored entries.
func (t *Table) Len() int { return len(t.entries) }

// HitRate is the fraction of probes answered since the last
// NewSearch.
func (t *Table) HitRate() float64 {
	total := t.Hits + t.Misses
	if total == 0 {
		return 0
	}
	return float64(t.Hits) / float64(total)
}
