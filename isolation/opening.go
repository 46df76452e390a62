package isolation

import (
	"math"
	"math/bits"
)

// Opening principle weights. The opening is about claiming the
// center, keeping exits, and staying off the rim.
const (
	openingCenterWeight   = 10
	openingMobilityWeight = 5
	openingCornerPenalty  = 15
	openingEdgePenalty    = 5
)

// The 3x3 center block, the most valuable ground in the opening.
func inCenterBlock(pos Cell) bool {
	return pos.R >= 2 && pos.R <= 4 && pos.C >= 2 && pos.C <= 4
}

// OpeningMove picks a principled move while the board is still open,
// skipping the full search. The number of destroyed cells stands in
// for the turn counter, since each turn destroys exactly one cell.
func OpeningMove(s State, ai bool) (Move, bool) {
	moves := s.SlideMoves(ai)
	if len(moves) == 0 {
		return Move{}, false
	}

	turnProxy := s.DestroyedCount()

	best := Move{}
	bestScore := math.MinInt32
	for _, mv := range moves {
		if score := evaluateOpeningMove(s, mv, ai, turnProxy); score > bestScore {
			bestScore = score
			best = mv
		}
	}

	best.Destroy = findBestOpeningDestroy(s, best.To, ai)
	best.Score = bestScore
	return best, true
}

func evaluateOpeningMove(s State, mv Move, ai bool, turnProxy int) int {
	to := mv.To
	score := 0

	score -= (abs(to.R-3) + abs(to.C-3)) * openingCenterWeight
	if inCenterBlock(to) {
		score += 20
	}

	corner := (to.R == 0 || to.R == Size-1) && (to.C == 0 || to.C == Size-1)
	edge := to.R == 0 || to.R == Size-1 || to.C == 0 || to.C == Size-1
	if corner {
		score -= openingCornerPenalty * 3
	} else if edge {
		score -= openingEdgePenalty
	}

	score += popcount(QueenMoves(to.R, to.C, s.Occupied())) * openingMobilityWeight

	oppPos := s.piecePos(!ai)
	oppDist := manhattan(to, oppPos)
	if turnProxy <= 6 {
		// Early on keep some distance; crowding the opponent just
		// trades mobility.
		if oppDist < 2 {
			score -= 10
		} else if oppDist >= 3 && oppDist <= 5 {
			score += 5
		}
	} else if oppDist <= 4 {
		score += 3
	}

	if mv.From.R != to.R && mv.From.C != to.C {
		score += 3 // diagonal slides leave more lines open
	}
	if to.R == to.C || to.R+to.C == Size-1 {
		score += 5
	}

	return score
}

// findBestOpeningDestroy targets the opponent's neighborhood and
// their path to the center while sparing cells near the mover's new
// square.
func findBestOpeningDestroy(s State, newPos Cell, ai bool) Cell {
	oppPos := s.piecePos(!ai)
	occupied := s.Occupied() | Mask(newPos.R, newPos.C)
	empty := fullBoard &^ occupied
	if empty == 0 {
		return Cell{}
	}

	oppMoves := QueenMoves(oppPos.R, oppPos.C, occupied)
	ownMoves := QueenMoves(newPos.R, newPos.C, occupied)
	oppToCenter := abs(oppPos.R-3) + abs(oppPos.C-3)

	best := Coords(bits.TrailingZeros64(empty))
	bestScore := math.MinInt32
	for m := empty; m != 0; m &= m - 1 {
		idx := bits.TrailingZeros64(m)
		pos := Coords(idx)
		mask := uint64(1) << uint(idx)

		score := 0

		oppDist := manhattan(pos, oppPos)
		if oppDist == 1 {
			score += 50
		} else if oppDist == 2 {
			score += 25
		}

		posToCenter := abs(pos.R-3) + abs(pos.C-3)
		if posToCenter < oppToCenter && oppDist <= 3 {
			score += 30 // cuts the opponent off from the center
		}

		if oppMoves&mask != 0 {
			score += 35
		}
		if ownMoves&mask != 0 {
			score -= 20
		}

		if inCenterBlock(pos) && manhattan(pos, newPos) <= 2 {
			score -= 15
		}

		corner := (pos.R == 0 || pos.R == Size-1) && (pos.C == 0 || pos.C == Size-1)
		edge := pos.R == 0 || pos.R == Size-1 || pos.C == 0 || pos.C == Size-1
		if corner {
			score += 5
		} else if edge {
			score += 2
		}

		if score > bestScore {
			bestScore = score
			best = pos
		}
	}
	return best
}
