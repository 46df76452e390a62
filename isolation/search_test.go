package isolation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigForDifficulty(t *testing.T) {
	require.Equal(t, 5, ConfigForDifficulty(3).MaxDepth)
	require.Equal(t, 7, ConfigForDifficulty(5).MaxDepth)
	require.Equal(t, 10, ConfigForDifficulty(7).MaxDepth)
	require.Equal(t, 10, ConfigForDifficulty(99).MaxDepth, "Unknown levels fall back to the strongest preset")

	cfg := ConfigForDifficulty(7)
	require.True(t, cfg.UseTT)
	require.True(t, cfg.UsePVS)
	require.True(t, cfg.UseNullMove)
}

func TestKillerTable(t *testing.T) {
	var killers killerTable
	first := Move{From: Cell{0, 0}, To: Cell{1, 1}}
	second := Move{From: Cell{2, 2}, To: Cell{3, 3}}
	third := Move{From: Cell{4, 4}, To: Cell{5, 5}}

	killers.record(4, first)
	killers.record(4, second)
	require.True(t, killers.matches(4, first))
	require.True(t, killers.matches(4, second))
	require.False(t, killers.matches(3, first), "Killers are per depth")

	killers.record(4, third)
	require.False(t, killers.matches(4, first), "Two slots: the oldest killer is evicted")
	require.True(t, killers.matches(4, second))
	require.True(t, killers.matches(4, third))

	killers.record(maxPly+5, first) // out of range is ignored
	require.False(t, killers.matches(maxPly+5, first))
}

func TestHistoryTable(t *testing.T) {
	var history historyTable
	from, to := Cell{1, 1}, Cell{4, 4}

	history.record(from, to, 3)
	history.record(from, to, 2)

	require.Equal(t, 13, history.score(from, to), "Cutoff bonus accumulates depth squared")
	require.Zero(t, history.score(to, from))
}

func TestOrderMoves(t *testing.T) {
	t.Run("winning slide sorts first", func(t *testing.T) {
		// The player piece at (0,1) can only step down column 1;
		// sliding the AI to (1,1) covers every exit.
		s := State{
			Player:    Mask(0, 1),
			AI:        Mask(3, 1),
			Destroyed: Mask(0, 0) | Mask(0, 2) | Mask(1, 0) | Mask(1, 2),
		}
		e := NewEngine(ConfigForDifficulty(7))
		moves := e.orderMoves(s.SlideMoves(true), s, 0, 4, true)

		occupied := s.Occupied() | Mask(moves[0].To.R, moves[0].To.C)
		require.Zero(t, QueenMoves(0, 1, occupied),
			"Top-ordered move should immobilize the opponent when possible")
	})

	t.Run("suicide slides sort last", func(t *testing.T) {
		// Stepping into the corner pocket leaves a single exit back
		// through (1,1).
		s := State{
			Player:    Mask(5, 5),
			AI:        Mask(1, 1),
			Destroyed: Mask(0, 1) | Mask(1, 0) | Mask(2, 2),
		}
		e := NewEngine(ConfigForDifficulty(7))
		moves := e.orderMoves(s.SlideMoves(true), s, 0, 4, true)

		last := moves[len(moves)-1]
		require.Equal(t, Cell{0, 0}, last.To, "The dead-end square must rank at the bottom")
	})
}

func TestDestroyCandidates(t *testing.T) {
	s := NewState()
	e := NewEngine(ConfigForDifficulty(7))
	mv := Move{From: Cell{6, 6}, To: Cell{3, 3}}

	candidates := e.destroyCandidates(s, mv, true, 6)

	require.Len(t, candidates, 6)
	occupied := s.Occupied() | Mask(mv.To.R, mv.To.C)
	for _, c := range candidates {
		require.Zero(t, occupied&Mask(c.R, c.C), "Candidates must be empty cells")
	}
}

func TestDestroyBudget(t *testing.T) {
	require.Equal(t, 6, destroyBudget(5))
	require.Equal(t, 8, destroyBudget(20))
	require.Equal(t, 12, destroyBudget(35))
}

func TestAlphaBeta(t *testing.T) {
	t.Run("no moves is a depth-weighted loss", func(t *testing.T) {
		sealed := State{
			Player:    Mask(0, 0),
			AI:        Mask(6, 6),
			Destroyed: Mask(0, 1) | Mask(1, 0) | Mask(1, 1),
		}
		e := NewEngine(ConfigForDifficulty(3))
		e.deadline = time.Now().Add(time.Minute)

		_, hasMove, score := e.alphaBeta(sealed, 4, -scoreInfinity, scoreInfinity, false, e.tt.Hash(sealed, false))

		require.False(t, hasMove)
		require.Equal(t, lossScore(4), score)
		require.Less(t, lossScore(4), lossScore(2), "Earlier losses score worse")
	})

	t.Run("finds the immediate win", func(t *testing.T) {
		// AI to move can seal the player into the corner.
		s := State{
			Player:    Mask(0, 0),
			AI:        Mask(3, 3),
			Destroyed: Mask(0, 1) | Mask(1, 0) | Mask(2, 0) | Mask(0, 2) | Mask(2, 2) | Mask(1, 2) | Mask(2, 1) | Mask(3, 0),
		}
		e := NewEngine(ConfigForDifficulty(3))
		e.deadline = time.Now().Add(time.Minute)

		mv, hasMove, score := e.alphaBeta(s, 2, -scoreInfinity, scoreInfinity, true, e.tt.Hash(s, true))

		require.True(t, hasMove)
		require.Greater(t, score, 90_000, "Sealing the opponent is a forced win")
		next := s.Apply(mv, true)
		require.Zero(t, next.Mobility(false))
	})
}

func TestEngineSearch(t *testing.T) {
	t.Run("uses the opening book on a fresh board", func(t *testing.T) {
		e := NewEngine(ConfigForDifficulty(5))
		result := e.Search(NewState(), true, time.Second)

		require.True(t, result.HasMove)
		require.Zero(t, result.Depth, "Book answers skip the deepening loop")
		require.Zero(t, result.Nodes)
	})

	t.Run("plays across a diagonal wall", func(t *testing.T) {
		// A destroyed main-diagonal run does not separate the corners:
		// queens route around it along the rim.
		var diag uint64
		for i := 1; i <= 5; i++ {
			diag |= Mask(i, i)
		}
		s := State{Player: Mask(0, 0), AI: Mask(6, 6), Destroyed: diag}
		e := NewEngine(ConfigForDifficulty(5))

		result := e.Search(s, true, time.Second)

		require.True(t, result.HasMove)
		require.Equal(t, Cell{6, 6}, result.Move.From)
		require.Zero(t, s.Occupied()&Mask(result.Move.To.R, result.Move.To.C))
		require.Zero(t, s.Occupied()&Mask(result.Move.Destroy.R, result.Move.Destroy.C))
	})

	t.Run("solves a small partitioned endgame", func(t *testing.T) {
		// Closed wall at column 2 plus filler so the book stays out.
		destroyed := wall(2) | Mask(6, 4) | Mask(6, 5)
		s := State{Player: Mask(3, 0), AI: Mask(3, 5), Destroyed: destroyed}
		e := NewEngine(ConfigForDifficulty(5))

		result := e.Search(s, false, time.Second)

		require.True(t, result.HasMove)
		require.True(t, result.Solved)
		require.Greater(t, result.Score, 90_000)
		partition := DetectPartition(s.PlayerPos(), s.AIPos(), s.Destroyed)
		require.NotZero(t, partition.PlayerRegion&Mask(result.Move.To.R, result.Move.To.C),
			"Move must stay inside the mover's own region")
	})

	t.Run("mid-game search returns a legal deepened move", func(t *testing.T) {
		destroyed := Mask(0, 3) | Mask(1, 3) | Mask(2, 3) | Mask(4, 3) |
			Mask(5, 3) | Mask(6, 3) | Mask(1, 1) | Mask(5, 5)
		s := State{Player: Mask(3, 1), AI: Mask(3, 5), Destroyed: destroyed}
		cfg := ConfigForDifficulty(3)
		cfg.MaxDepth = 2
		e := NewEngine(cfg)

		result := e.Search(s, true, 5*time.Second)

		require.True(t, result.HasMove)
		require.Positive(t, result.Depth)
		require.Positive(t, result.Nodes)

		legal := false
		for _, mv := range s.SlideMoves(true) {
			if sameSlide(mv, result.Move) {
				legal = true
			}
		}
		require.True(t, legal, "Slide must be one of the legal queen moves")
		require.Zero(t, s.Occupied()&Mask(result.Move.Destroy.R, result.Move.Destroy.C))
		require.NotEqual(t, result.Move.To, result.Move.Destroy)
	})

	t.Run("feature toggles do not change legality", func(t *testing.T) {
		destroyed := Mask(0, 0) | Mask(1, 1) | Mask(2, 2) | Mask(4, 4) |
			Mask(5, 5) | Mask(6, 0) | Mask(0, 6) | Mask(2, 4)
		s := State{Player: Mask(3, 1), AI: Mask(3, 5), Destroyed: destroyed}

		cfg := ConfigForDifficulty(3)
		cfg.MaxDepth = 2
		cfg.UseTT = false
		cfg.UseKillers = false
		cfg.UseHistory = false
		cfg.UseAspiration = false
		cfg.UsePVS = false
		cfg.UseNullMove = false
		e := NewEngine(cfg)

		result := e.Search(s, true, 5*time.Second)

		require.True(t, result.HasMove)
		legal := false
		for _, mv := range s.SlideMoves(true) {
			if sameSlide(mv, result.Move) {
				legal = true
			}
		}
		require.True(t, legal)
	})
}
