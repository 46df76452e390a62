package isolation

import "math/bits"

// Weights is the component weight vector applied by Evaluate. Scores
// are from the AI's perspective: positive favors the AI.
type Weights struct {
	Territory          float64
	Mobility           float64
	MobilityPotential  float64
	CenterControl      float64
	CornerAvoidance    float64
	PartitionAdvantage float64
	CriticalCells      float64
	Openness           float64
	Parity             float64
	Trap               float64
	EffectiveMobility  float64
}

// Phase buckets a position by how many cells have been destroyed.
type Phase int

const (
	PhaseOpening Phase = iota
	PhaseMidgame
	PhaseEndgame
)

func PhaseOf(destroyedCount int) Phase {
	switch {
	case destroyedCount < 10:
		return PhaseOpening
	case destroyedCount < 30:
		return PhaseMidgame
	default:
		return PhaseEndgame
	}
}

// Per-phase base vectors. Opening keeps the pieces flexible and
// central, the endgame is dominated by partition advantage and raw
// survival terms.
var phaseWeights = [3]Weights{
	PhaseOpening: {
		Territory:          3.0,
		Mobility:           8.0,
		MobilityPotential:  5.0,
		CenterControl:      3.0,
		CornerAvoidance:    3.0,
		PartitionAdvantage: 200.0,
		CriticalCells:      3.0,
		Openness:           1.5,
		Parity:             0.0,
		Trap:               5.0,
		EffectiveMobility:  0.0,
	},
	PhaseMidgame: {
		Territory:          5.0,
		Mobility:           8.0,
		MobilityPotential:  5.0,
		CenterControl:      2.0,
		CornerAvoidance:    3.0,
		PartitionAdvantage: 500.0,
		CriticalCells:      4.0,
		Openness:           1.0,
		Parity:             2.0,
		Trap:               8.0,
		EffectiveMobility:  0.0,
	},
	PhaseEndgame: {
		Territory:          6.0,
		Mobility:           10.0,
		MobilityPotential:  3.0,
		CenterControl:      1.0,
		CornerAvoidance:    2.0,
		PartitionAdvantage: 1000.0,
		CriticalCells:      4.0,
		Openness:           0.5,
		Parity:             4.0,
		Trap:               10.0,
		EffectiveMobility:  6.0,
	},
}

// difficultyScale shrinks every magnitude for the weaker tiers.
func difficultyScale(level int) float64 {
	switch level {
	case 3:
		return 0.5
	case 5:
		return 0.75
	default:
		return 1.0
	}
}

// WeightsFor returns the weight vector for a difficulty tier at the
// game phase implied by destroyedCount.
func WeightsFor(level, destroyedCount int) Weights {
	w := phaseWeights[PhaseOf(destroyedCount)]
	scale := difficultyScale(level)
	w.Territory *= scale
	w.Mobility *= scale
	w.MobilityPotential *= scale
	w.CenterControl *= scale
	w.CornerAvoidance *= scale
	w.PartitionAdvantage *= scale
	w.CriticalCells *= scale
	w.Openness *= scale
	w.Parity *= scale
	w.Trap *= scale
	w.EffectiveMobility *= scale
	return w
}

// Components carries the unweighted value of each evaluation term,
// mainly for diagnostics and tests.
type Components struct {
	Territory          float64
	Mobility           float64
	MobilityPotential  float64
	CenterControl      float64
	CornerAvoidance    float64
	PartitionAdvantage float64
	CriticalCells      float64
	Openness           float64
	Parity             float64
	Trap               float64
	EffectiveMobility  float64
}

// Precomputed 49-entry positional tables.
var (
	centerDistance [Cells]int // Manhattan distance from (3,3)
	cornerDistance [Cells]int // Manhattan distance to the nearest corner
)

func init() {
	corners := []Cell{{0, 0}, {0, Size - 1}, {Size - 1, 0}, {Size - 1, Size - 1}}
	for idx := 0; idx < Cells; idx++ {
		pos := Coords(idx)
		centerDistance[idx] = abs(pos.R-3) + abs(pos.C-3)
		best := Size * 2
		for _, corner := range corners {
			if d := manhattan(pos, corner); d < best {
				best = d
			}
		}
		cornerDistance[idx] = best
	}
}

// CriticalCache memoizes critical-cell lookups within one search
// call. It is owned by the caller, keyed by a cheap positional hash,
// and cleared wholesale when it overflows.
type CriticalCache struct {
	entries map[uint64][]uint8
	max     int
}

const defaultCriticalCacheSize = 1000

func NewCriticalCache(max int) *CriticalCache {
	if max <= 0 {
		max = defaultCriticalCacheSize
	}
	return &CriticalCache{
		entries: make(map[uint64][]uint8),
		max:     max,
	}
}

func (c *CriticalCache) lookup(key uint64) ([]uint8, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *CriticalCache) store(key uint64, cells []uint8) {
	if len(c.entries) >= c.max {
		c.entries = make(map[uint64][]uint8)
	}
	c.entries[key] = cells
}

// Len reports the number of cached positions.
func (c *CriticalCache) Len() int { return len(c.entries) }

// criticalCacheKey mixes both piece indices with the destroyed mask.
func criticalCacheKey(s State) uint64 {
	playerIdx, _ := PieceIndex(s.Player)
	aiIdx, _ := PieceIndex(s.AI)
	hash := uint64(playerIdx) | uint64(aiIdx)<<8
	for d := s.Destroyed; d != 0; d &= d - 1 {
		idx := uint64(bits.TrailingZeros64(d))
		hash ^= idx << (idx % 32)
	}
	return hash
}

// Evaluate scores the position for the AI under the given weight
// vector. A state with a missing piece mask is treated as neutral
// rather than an error: mid-search a crash would forfeit the whole
// move computation.
func Evaluate(s State, w Weights, cache *CriticalCache) (int, Components) {
	if s.Player == 0 || s.AI == 0 {
		return 0, Components{}
	}

	blocked := s.Occupied()
	playerPos := s.PlayerPos()
	aiPos := s.AIPos()

	voronoi := Voronoi(playerPos, aiPos, s.Destroyed)
	territory := float64(voronoi.AICount-voronoi.PlayerCount) +
		float64(voronoi.ContestedCount)*0.4 // contested leans to the AI, which moves second

	aiMoves := QueenMoves(aiPos.R, aiPos.C, blocked)
	playerMoves := QueenMoves(playerPos.R, playerPos.C, blocked)
	aiMobility := popcount(aiMoves)
	playerMobility := popcount(playerMoves)
	mobility := float64(aiMobility - playerMobility)

	// Desperation override: with two or fewer escape squares nothing
	// but immediate survival matters.
	wTerritory, wMobility, wPartition := w.Territory, w.Mobility, w.PartitionAdvantage
	if aiMobility <= 2 {
		wTerritory, wMobility, wPartition = 0, 50, 0
	}

	mobilityPotential := mobilityPotential(s, blocked)

	aiIdx, _ := PieceIndex(s.AI)
	playerIdx, _ := PieceIndex(s.Player)
	center := float64(centerDistance[playerIdx] - centerDistance[aiIdx])
	corner := float64(cornerDistance[aiIdx] - cornerDistance[playerIdx])

	partition := DetectPartition(playerPos, aiPos, s.Destroyed)
	var partitionScore float64
	var critical []uint8
	if partition.IsPartitioned {
		partitionScore = float64(partition.AIRegionSize-partition.PlayerRegionSize) * 3
	} else {
		critical = criticalCells(s, blocked, cache)
		if n := len(critical); n > 0 && n <= 3 {
			partitionScore = partitionThreat(playerPos, aiPos, s.Destroyed, critical)
		}
	}

	criticalScore := criticalControl(critical, voronoi)
	openness := opennessScore(playerPos, aiPos, blocked)

	var parity float64
	if partition.IsPartitioned {
		parity = float64(partition.AIRegionSize%2 - partition.PlayerRegionSize%2)
	}

	var trap float64
	if playerMobility == 1 {
		trap += 1
	}
	if aiMobility == 1 {
		trap -= 1
	}

	var effective float64
	if w.EffectiveMobility != 0 {
		effective = effectiveMobility(s, aiMoves, playerMoves)
	}

	components := Components{
		Territory:          territory,
		Mobility:           mobility,
		MobilityPotential:  mobilityPotential,
		CenterControl:      center,
		CornerAvoidance:    corner,
		PartitionAdvantage: partitionScore,
		CriticalCells:      criticalScore,
		Openness:           openness,
		Parity:             parity,
		Trap:               trap,
		EffectiveMobility:  effective,
	}

	score := territory*wTerritory +
		mobility*wMobility +
		mobilityPotential*w.MobilityPotential +
		center*w.CenterControl +
		corner*w.CornerAvoidance +
		partitionScore*wPartition +
		criticalScore*w.CriticalCells +
		openness*w.Openness +
		parity*w.Parity +
		trap*w.Trap +
		effective*w.EffectiveMobility

	return int(score), components
}

// mobilityPotential is a two-ply lookahead: cells reachable in one
// slide count fully, cells first reachable on the second slide count
// half.
func mobilityPotential(s State, blocked uint64) float64 {
	potential := func(pieceMask uint64, pos Cell) float64 {
		first := QueenMoves(pos.R, pos.C, blocked)
		var second uint64
		for m := first; m != 0; m &= m - 1 {
			from := Coords(bits.TrailingZeros64(m))
			second |= QueenMoves(from.R, from.C, blocked|pieceMask)
		}
		second &^= first
		return float64(popcount(first)) + float64(popcount(second))*0.5
	}
	return potential(s.AI, s.AIPos()) - potential(s.Player, s.PlayerPos())
}

// criticalCells finds empty cells whose removal would split the
// board, restricted to the bounding box between the pieces expanded
// by one ring. Results are memoized in the caller's cache.
func criticalCells(s State, blocked uint64, cache *CriticalCache) []uint8 {
	key := criticalCacheKey(s)
	if cache != nil {
		if cells, ok := cache.lookup(key); ok {
			return cells
		}
	}

	playerPos := s.PlayerPos()
	aiPos := s.AIPos()

	minR, maxR := minMax(playerPos.R, aiPos.R)
	minC, maxC := minMax(playerPos.C, aiPos.C)
	minR = clampBoard(minR - 1)
	maxR = clampBoard(maxR + 1)
	minC = clampBoard(minC - 1)
	maxC = clampBoard(maxC + 1)

	var critical []uint8
	for r := minR; r <= maxR; r++ {
		for c := minC; c <= maxC; c++ {
			idx := Index(r, c)
			if blocked&(1<<uint(idx)) != 0 {
				continue
			}
			if WouldPartition(playerPos, aiPos, s.Destroyed, Cell{r, c}) {
				critical = append(critical, uint8(idx))
			}
		}
	}

	if cache != nil {
		cache.store(key, critical)
	}
	return critical
}

// partitionThreat scores the best partition either side could force
// by destroying one of the critical cells, at half weight since it
// has not happened yet.
func partitionThreat(playerPos, aiPos Cell, destroyed uint64, critical []uint8) float64 {
	best := -1000.0
	for _, idx := range critical {
		result := DetectPartition(playerPos, aiPos, destroyed|1<<uint(idx))
		if result.IsPartitioned {
			if adv := float64(result.AIRegionSize - result.PlayerRegionSize); adv > best {
				best = adv
			}
		}
	}
	return best * 0.5
}

// criticalControl weights critical cells by which territory they sit
// in.
func criticalControl(critical []uint8, voronoi VoronoiResult) float64 {
	if len(critical) == 0 {
		return 0
	}
	control := 0
	for _, idx := range critical {
		mask := uint64(1) << uint(idx)
		switch {
		case voronoi.AITerritory&mask != 0:
			control++
		case voronoi.PlayerTerritory&mask != 0:
			control--
		}
	}
	return float64(control * 2)
}

// opennessScore sums unobstructed ray lengths in all 8 directions
// for each piece.
func opennessScore(playerPos, aiPos Cell, blocked uint64) float64 {
	rays := func(pos Cell) int {
		total := 0
		for _, d := range rayDirections {
			r, c := pos.R+d[0], pos.C+d[1]
			for r >= 0 && r < Size && c >= 0 && c < Size {
				if blocked&Mask(r, c) != 0 {
					break
				}
				total++
				r += d[0]
				c += d[1]
			}
		}
		return total
	}
	return float64(rays(aiPos)-rays(playerPos)) * 0.3
}

// effectiveMobility counts only slides whose destination keeps at
// least two follow-up moves, discounting dead-end squares. Active in
// the endgame phase where every tempo matters.
func effectiveMobility(s State, aiMoves, playerMoves uint64) float64 {
	count := func(moves, oppMask uint64) int {
		n := 0
		for m := moves; m != 0; m &= m - 1 {
			to := Coords(bits.TrailingZeros64(m))
			future := s.Destroyed | oppMask | Mask(to.R, to.C)
			if popcount(QueenMoves(to.R, to.C, future)) >= 2 {
				n++
			}
		}
		return n
	}
	ai := count(aiMoves, s.Player)
	player := count(playerMoves, s.AI)
	return float64(ai - player)
}

func minMax(a, b int) (int, int) {
	if a < b {
		return a, b
	}
	return b, a
}

func clampBoard(v int) int {
	if v < 0 {
		return 0
	}
	if v >= Size {
		return Size - 1
	}
	return v
}
