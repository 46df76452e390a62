package isolation

import (
	"time"

	"nexus/clock"
)

const (
	scoreInfinity = 1_000_000
	scoreWinBase  = 100_000

	// Aspiration window parameters: start narrow, double on fail,
	// fall back to a full-width search past the cap.
	aspirationWindow    = 50
	aspirationMaxWindow = 500

	// Endgame regions up to this size are handed to the exact solver.
	endgameSolveLimit = 18

	// Opening book applies while the board is still mostly intact.
	openingBookLimit = 8

	timeoutCheckMask = 4095
)

// lossScore is the terminal score for the side to move having no
// moves. Deeper remaining depth means an earlier loss, which gets
// penalized harder so the search prefers to lose late and win early.
func lossScore(depth int) int {
	return -(scoreWinBase + depth*100)
}

// Engine runs iterative-deepening alpha-beta for one move
// computation. All mutable search state (transposition table, killer
// and history tables, critical-cell cache) lives on the Engine, so
// concurrent computations each take their own Engine.
type Engine struct {
	cfg Config
	clk clock.Clock

	tt        *Table
	killers   killerTable
	history   historyTable
	criticals *CriticalCache

	nodes    uint64
	deadline time.Time
	timedOut bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock injects a clock, letting tests drive deadlines
// deterministically.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clk = c }
}

// NewEngine builds an engine for the given config.
func NewEngine(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:       cfg,
		clk:       clock.System(),
		tt:        NewTable(),
		criticals: NewCriticalCache(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one move computation.
type Result struct {
	Move    Move
	HasMove bool
	Depth   int
	Score   int
	Nodes   uint64
	Solved  bool
	Elapsed time.Duration
}

// Search picks a move for the given side within the time budget. It
// tries the opening book first, then the exact endgame solver when
// the board is partitioned and the mover's region is small enough,
// and otherwise runs iterative deepening.
func (e *Engine) Search(s State, aiToMove bool, budget time.Duration) Result {
	start := e.clk.Now()
	e.deadline = start.Add(budget)
	e.timedOut = false
	e.nodes = 0

	if mv, ok := e.openingMove(s, aiToMove); ok {
		return Result{
			Move:    mv,
			HasMove: true,
			Elapsed: e.clk.Now().Sub(start),
		}
	}

	partition := DetectPartition(s.PlayerPos(), s.AIPos(), s.Destroyed)
	if partition.IsPartitioned {
		region := partition.AIRegion
		if !aiToMove {
			region = partition.PlayerRegion
		}
		if popcount(region) <= endgameSolveLimit {
			if res, ok := e.solveEndgame(s, region, aiToMove, budget/2); ok {
				res.Nodes = e.nodes
				res.Elapsed = e.clk.Now().Sub(start)
				return res
			}
		}
	}

	res := e.iterativeDeepening(s, aiToMove)
	res.Nodes = e.nodes
	res.Elapsed = e.clk.Now().Sub(start)
	return res
}

// openingMove consults the opening book and verifies the suggestion
// does not immobilize the mover.
func (e *Engine) openingMove(s State, aiToMove bool) (Move, bool) {
	if s.DestroyedCount() >= openingBookLimit {
		return Move{}, false
	}
	mv, ok := OpeningMove(s, aiToMove)
	if !ok {
		return Move{}, false
	}
	next := s.Apply(mv, aiToMove)
	if next.Mobility(aiToMove) == 0 {
		return Move{}, false
	}
	return mv, true
}

// solveEndgame runs the exact longest-path solver on the mover's
// region. A heuristic (time-limited) answer is still used; only a
// missing move falls through to alpha-beta.
func (e *Engine) solveEndgame(s State, region uint64, aiToMove bool, budget time.Duration) (Result, bool) {
	solved := SolveEndgame(s, region, aiToMove, budget, e.clk)
	if !solved.HasMove {
		return Result{}, false
	}
	return Result{
		Move:    solved.Move,
		HasMove: true,
		Score:   scoreWinBase + solved.Length,
		Solved:  solved.Exact,
	}, true
}

// iterativeDeepening deepens until the depth cap, the deadline, or a
// forced result. Results from a depth the deadline interrupted are
// discarded, except at depth 1 where a possibly-partial answer beats
// no answer.
func (e *Engine) iterativeDeepening(s State, aiToMove bool) Result {
	var best Result
	prevScore := 0
	hash := e.tt.Hash(s, aiToMove)
	e.tt.NewSearch()

	for depth := 1; depth <= e.cfg.MaxDepth; depth++ {
		if e.clk.Now().After(e.deadline) {
			break
		}

		mv, hasMove, score := e.searchDepth(s, depth, prevScore, aiToMove, hash)
		if e.timedOut && depth > 1 {
			break
		}
		if hasMove {
			best = Result{Move: mv, HasMove: true, Depth: depth, Score: score}
			prevScore = score
		}
		if e.timedOut {
			break
		}
		if abs(score) > 90_000 {
			// Forced win or loss: deeper search cannot change it.
			break
		}
	}
	return best
}

// searchDepth runs one depth iteration, with an aspiration window
// around the previous score once the search is deep enough for the
// previous score to mean something.
func (e *Engine) searchDepth(s State, depth, prevScore int, aiToMove bool, hash uint64) (Move, bool, int) {
	if !e.cfg.UseAspiration || depth < 3 {
		return e.alphaBeta(s, depth, -scoreInfinity, scoreInfinity, aiToMove, hash)
	}

	window := aspirationWindow
	alpha := prevScore - window
	beta := prevScore + window
	for {
		mv, hasMove, score := e.alphaBeta(s, depth, alpha, beta, aiToMove, hash)
		if e.timedOut {
			return mv, hasMove, score
		}
		if score > alpha && score < beta {
			return mv, hasMove, score
		}

		window *= 2
		if window > aspirationMaxWindow {
			return e.alphaBeta(s, depth, -scoreInfinity, scoreInfinity, aiToMove, hash)
		}
		if score <= alpha {
			alpha = score - window
		} else {
			beta = score + window
		}
	}
}

// alphaBeta is a negamax search: scores are from the perspective of
// the side to move and child values are negated. maximizing is true
// when the AI is to move, which is also when Evaluate's sign already
// matches the mover.
func (e *Engine) alphaBeta(s State, depth, alpha, beta int, maximizing bool, hash uint64) (Move, bool, int) {
	e.nodes++
	if e.nodes&timeoutCheckMask == 0 && e.clk.Now().After(e.deadline) {
		e.timedOut = true
	}
	if e.timedOut {
		if maximizing {
			return Move{}, false, -scoreInfinity
		}
		return Move{}, false, scoreInfinity
	}

	moves := s.SlideMoves(maximizing)
	if len(moves) == 0 {
		return Move{}, false, lossScore(depth)
	}

	if e.cfg.UseTT {
		if entry, ok := e.tt.Probe(hash, depth, alpha, beta); ok && entry.Depth >= depth {
			switch entry.Bound {
			case BoundExact:
				return entry.Move, entry.HasMove, entry.Score
			case BoundLower:
				if entry.Score >= beta {
					return entry.Move, entry.HasMove, entry.Score
				}
			case BoundUpper:
				if entry.Score <= alpha {
					return entry.Move, entry.HasMove, entry.Score
				}
			}
		}
	}

	if depth == 0 {
		score, _ := Evaluate(s, WeightsFor(e.cfg.Difficulty, s.DestroyedCount()), e.criticals)
		if !maximizing {
			score = -score
		}
		return Move{}, false, score
	}

	// Null move: skip a turn and search reduced. If the position is
	// still above beta even after handing the opponent a free move,
	// the real search will be too. Skipped when the mover is cramped
	// or the board is nearly full, where zugzwang breaks the logic.
	if e.cfg.UseNullMove && depth >= 3 && maximizing {
		freeCells := Cells - s.DestroyedCount() - 2
		if len(moves) > 3 && freeCells > 10 {
			reduction := 3
			if depth-1 < reduction {
				reduction = depth - 1
			}
			nullDepth := depth - 1 - reduction
			if nullDepth < 0 {
				nullDepth = 0
			}
			_, _, v := e.alphaBeta(s, nullDepth, -beta, -beta+1, !maximizing, hash^e.tt.zobristTurn)
			if !e.timedOut && -v >= beta {
				return Move{}, false, beta
			}
		}
	}

	ordered := e.orderMoves(moves, s, hash, depth, maximizing)
	limit := destroyBudget(s.DestroyedCount())

	origAlpha := alpha
	bestScore := -scoreInfinity
	var bestMove Move
	hasBest := false
	moveCount := 0

search:
	for _, mv := range ordered {
		for _, destroy := range e.destroyCandidates(s, mv, maximizing, limit) {
			mv.Destroy = destroy
			next := s.Apply(mv, maximizing)
			nextHash := e.tt.UpdateHash(hash, s, next, true)

			var val int
			if e.cfg.UsePVS && moveCount > 0 && depth >= 3 {
				// Null-window probe first; re-search on a fail-high
				// inside the window.
				_, _, v := e.alphaBeta(next, depth-1, -alpha-1, -alpha, !maximizing, nextHash)
				val = -v
				if !e.timedOut && val > alpha && val < beta {
					_, _, v = e.alphaBeta(next, depth-1, -beta, -alpha, !maximizing, nextHash)
					val = -v
				}
			} else {
				_, _, v := e.alphaBeta(next, depth-1, -beta, -alpha, !maximizing, nextHash)
				val = -v
			}
			if e.timedOut {
				break search
			}
			moveCount++

			if val > bestScore {
				bestScore = val
				bestMove = mv
				hasBest = true
			}
			if bestScore > alpha {
				alpha = bestScore
			}
			if alpha >= beta {
				if e.cfg.UseKillers {
					e.killers.record(depth, mv)
				}
				if e.cfg.UseHistory {
					e.history.record(mv.From, mv.To, depth)
				}
				break search
			}
		}
	}

	if !hasBest {
		// Every candidate was cut off by the deadline before
		// completing; surface the sentinel so the iteration is
		// discarded.
		if maximizing {
			return Move{}, false, -scoreInfinity
		}
		return Move{}, false, scoreInfinity
	}

	if e.cfg.UseTT && !e.timedOut {
		bound := BoundExact
		switch {
		case bestScore <= origAlpha:
			bound = BoundUpper
		case bestScore >= beta:
			bound = BoundLower
		}
		e.tt.Store(hash, depth, bestScore, bound, bestMove, true)
	}

	return bestMove, true, bestScore
}
