package isolation

import (
	"math/bits"
	"sort"
)

const maxPly = 32

// killerTable keeps two recent cutoff moves per depth,
// most-recent-first.
type killerTable struct {
	moves [maxPly][2]Move
	used  [maxPly][2]bool
}

func (k *killerTable) record(depth int, mv Move) {
	if depth < 0 || depth >= maxPly {
		return
	}
	if k.used[depth][0] && sameSlide(k.moves[depth][0], mv) {
		return
	}
	k.moves[depth][1] = k.moves[depth][0]
	k.used[depth][1] = k.used[depth][0]
	k.moves[depth][0] = mv
	k.used[depth][0] = true
}

func (k *killerTable) matches(depth int, mv Move) bool {
	if depth < 0 || depth >= maxPly {
		return false
	}
	for slot := 0; slot < 2; slot++ {
		if k.used[depth][slot] && sameSlide(k.moves[depth][slot], mv) {
			return true
		}
	}
	return false
}

// historyTable accrues a depth-squared bonus for every slide that
// causes a cutoff anywhere in the tree.
type historyTable struct {
	scores [Cells][Cells]int
}

func (h *historyTable) record(from, to Cell, depth int) {
	h.scores[Index(from.R, from.C)][Index(to.R, to.C)] += depth * depth
}

func (h *historyTable) score(from, to Cell) int {
	return h.scores[Index(from.R, from.C)][Index(to.R, to.C)]
}

// orderMoves scores and sorts the slide moves: PV move from the
// transposition table first, then killers, history, immediate wins,
// and a heavy penalty for slides that leave the mover with one exit
// or none ("suicide prevention") unless the move wins outright or the
// opponent is equally desperate.
func (e *Engine) orderMoves(moves []Move, s State, hash uint64, depth int, aiToMove bool) []Move {
	var pvMove Move
	var hasPV bool
	if e.cfg.UseTT {
		if entry, ok := e.tt.entries[hash]; ok && entry.HasMove {
			pvMove = entry.Move
			hasPV = true
		}
	}

	var oppMask uint64
	if aiToMove {
		oppMask = s.Player
	} else {
		oppMask = s.AI
	}
	oppPos := s.piecePos(!aiToMove)

	for i := range moves {
		mv := &moves[i]
		score := 0

		if hasPV && sameSlide(pvMove, *mv) {
			score += 100_000
		}
		if e.cfg.UseKillers && e.killers.matches(depth, *mv) {
			score += 9_000
		}
		if e.cfg.UseHistory {
			score += e.history.score(mv.From, mv.To)
		}

		occupied := s.Occupied() | Mask(mv.To.R, mv.To.C)
		oppMobility := popcount(QueenMoves(oppPos.R, oppPos.C, occupied))

		winning := false
		if oppMobility == 0 {
			score += 50_000
			winning = true
		}

		if !winning && oppMobility > 1 {
			futureBlocked := s.Destroyed | oppMask | Mask(mv.To.R, mv.To.C)
			switch popcount(QueenMoves(mv.To.R, mv.To.C, futureBlocked)) {
			case 0:
				score -= 100_000
			case 1:
				score -= 20_000
			case 2:
				score -= 2_000
			}
		}

		mv.Score = score
	}

	sort.SliceStable(moves, func(i, j int) bool {
		return moves[i].Score > moves[j].Score
	})
	return moves
}

// destroyBudget scales the destroy-candidate count with the game
// phase: the endgame is narrow enough to afford a wider net.
func destroyBudget(destroyedCount int) int {
	switch PhaseOf(destroyedCount) {
	case PhaseOpening:
		return 6
	case PhaseMidgame:
		return 8
	default:
		return 12
	}
}

// destroyCandidates scores every empty cell as a destroy target for
// the already-chosen slide and keeps the top candidates. The full
// destroy space (40+ cells) times the slide count would blow up the
// branching factor, so everything below the cut is pruned. Partition
// impact is deliberately left to leaf evaluation; scoring it per
// candidate costs more than it buys.
func (e *Engine) destroyCandidates(s State, mv Move, aiToMove bool, limit int) []Cell {
	occupied := s.Occupied() | Mask(mv.To.R, mv.To.C)

	var targetMask uint64
	if aiToMove {
		targetMask = s.Player
	} else {
		targetMask = s.AI
	}
	targetIdx, ok := PieceIndex(targetMask)
	if !ok {
		return nil
	}
	targetPos := Coords(targetIdx)
	targetMobility := QueenMoves(targetPos.R, targetPos.C, occupied)

	empty := fullBoard &^ occupied
	type scored struct {
		pos   Cell
		score int
	}
	candidates := make([]scored, 0, popcount(empty))
	for m := empty; m != 0; m &= m - 1 {
		pos := Coords(bits.TrailingZeros64(m))
		candidates = append(candidates, scored{
			pos:   pos,
			score: scoreDestroy(pos, targetMobility, mv.To, targetPos),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if limit > len(candidates) {
		limit = len(candidates)
	}
	out := make([]Cell, limit)
	for i := 0; i < limit; i++ {
		out[i] = candidates[i].pos
	}
	return out
}

// scoreDestroy ranks a destroy target: finishing the opponent's last
// exit dominates, then pressure near the opponent, keeping our own
// neighborhood open, and center control.
func scoreDestroy(pos Cell, targetMobility uint64, ourNewPos, targetPos Cell) int {
	score := 0

	// The slide alone may already have sealed the opponent in; any
	// destroy wins, the remaining terms just break ties.
	if targetMobility == 0 {
		score = 20_000
	}

	posMask := Mask(pos.R, pos.C)
	if targetMobility&posMask != 0 {
		if popcount(targetMobility) == 1 {
			score += 10_000 // removes the opponent's last move
		} else {
			score += 50
		}
	}

	switch manhattan(pos, targetPos) {
	case 1:
		score += 30
	case 2:
		score += 15
	}

	if manhattan(pos, ourNewPos) == 1 {
		score -= 50
	}

	centerDist := abs(pos.R-3) + abs(pos.C-3)
	score += (6 - centerDist) * 2

	return score
}
