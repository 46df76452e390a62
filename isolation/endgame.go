package isolation

import (
	"math"
	"math/bits"
	"time"

	"nexus/clock"
)

// EndgameResult is the outcome of the exact endgame solver. Exact is
// false when the time budget ran out and Length is only a lower
// bound over the root moves examined so far.
type EndgameResult struct {
	Move    Move
	HasMove bool
	Length  int
	Exact   bool
}

// SolveEndgame finds the move maximizing the longest walk through the
// mover's region once the board is partitioned. With the opponent
// unreachable the game reduces to a longest-path problem, which the
// memoized DFS below solves exactly for small regions.
//
// Root moves are abandoned once 80% of the budget is spent; whatever
// was completed by then is returned as a heuristic answer.
func SolveEndgame(s State, region uint64, ai bool, budget time.Duration, clk clock.Clock) EndgameResult {
	start := clk.Now()
	cutoff := start.Add(budget * 8 / 10)

	pos := s.piecePos(ai)
	posMask := Mask(pos.R, pos.C)

	memo := make(map[endgameKey]int)
	bestPath := -1
	var bestMove Move
	hasMove := false
	exact := true

	for _, mv := range s.SlideMoves(ai) {
		if clk.Now().After(cutoff) {
			exact = false
			break
		}

		toMask := Mask(mv.To.R, mv.To.C)
		if region&toMask == 0 {
			continue
		}

		length := 1 + longestPath(Index(mv.To.R, mv.To.C), posMask|toMask, region, memo)
		if length > bestPath {
			bestPath = length
			mv.Destroy = findBestEndgameDestroy(s, mv.To, region, ai)
			mv.Score = length
			bestMove = mv
			hasMove = true
		}
	}

	return EndgameResult{
		Move:    bestMove,
		HasMove: hasMove,
		Length:  bestPath,
		Exact:   exact,
	}
}

type endgameKey struct {
	pos     uint8
	visited uint64
}

// longestPath returns the maximum number of further moves from posIdx
// given the cells already walked. Visited cells block movement, which
// is what makes this a path rather than a flood.
func longestPath(posIdx int, visited, region uint64, memo map[endgameKey]int) int {
	key := endgameKey{pos: uint8(posIdx), visited: visited}
	if cached, ok := memo[key]; ok {
		return cached
	}

	pos := Coords(posIdx)
	blocked := ^region | visited
	moves := QueenMoves(pos.R, pos.C, blocked)
	if moves == 0 {
		return 0
	}

	best := 0
	for m := moves; m != 0; m &= m - 1 {
		idx := bits.TrailingZeros64(m)
		if length := 1 + longestPath(idx, visited|1<<uint(idx), region, memo); length > best {
			best = length
		}
	}

	memo[key] = best
	return best
}

// findBestEndgameDestroy picks the destroy half of an endgame move:
// cells outside the mover's region cost nothing to lose, far from the
// mover's new square, and close to the opponent to shrink their walk.
func findBestEndgameDestroy(s State, newPos Cell, region uint64, ai bool) Cell {
	oppPos := s.piecePos(!ai)
	occupied := s.Occupied() | Mask(newPos.R, newPos.C)
	empty := fullBoard &^ occupied
	if empty == 0 {
		// Only the square just vacated is left to destroy.
		return s.piecePos(ai)
	}

	best := Cell{}
	bestScore := math.MinInt32
	for m := empty; m != 0; m &= m - 1 {
		idx := bits.TrailingZeros64(m)
		pos := Coords(idx)

		score := 0
		if region&(1<<uint(idx)) == 0 {
			score += 200
		}
		score += manhattan(pos, newPos) * 5
		score += (10 - manhattan(pos, oppPos)) * 3

		if score > bestScore {
			bestScore = score
			best = pos
		}
	}
	return best
}

// EstimateLongestPath is a cheap upper-level guess used when the
// region is too big to solve: compact regions tend to admit walks
// covering about three quarters of their cells.
func EstimateLongestPath(cellCount int) int {
	return cellCount * 3 / 4
}
