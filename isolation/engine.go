package isolation

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// StateFromBoard decodes the flat board representation used by the
// interactive caller: 0 empty, 1 the human piece, 2 the AI piece,
// 3 a destroyed cell. A missing piece is patched with its starting
// corner rather than rejected, since the search can still produce a
// sensible answer.
func StateFromBoard(board []uint8) (State, error) {
	if len(board) != Cells {
		return State{}, fmt.Errorf("isolation: board has %d cells, want %d", len(board), Cells)
	}

	var s State
	for i, v := range board {
		mask := uint64(1) << uint(i)
		switch v {
		case 1:
			s.Player |= mask
		case 2:
			s.AI |= mask
		case 3:
			s.Destroyed |= mask
		}
	}

	if s.Player == 0 {
		log.Warn().Msg("isolation: board has no human piece, defaulting to (0,0)")
		s.Player = 1 << 0
	}
	if s.AI == 0 {
		log.Warn().Msg("isolation: board has no ai piece, defaulting to (6,6)")
		s.AI = 1 << 48
	}
	return s, nil
}

// FindBestMove is the external entry point: decode the board, run a
// fresh engine for the requested difficulty, and log the outcome.
func FindBestMove(board []uint8, aiToMove bool, budget time.Duration, difficulty int, options ...Option) (Result, error) {
	state, err := StateFromBoard(board)
	if err != nil {
		return Result{}, err
	}

	engine := NewEngine(ConfigForDifficulty(difficulty), options...)
	result := engine.Search(state, aiToMove, budget)

	event := log.Info().
		Int("depth", result.Depth).
		Int("score", result.Score).
		Uint64("nodes", result.Nodes).
		Bool("solved", result.Solved).
		Dur("elapsed", result.Elapsed)
	if result.HasMove {
		event.Msgf("isolation: best move (%d,%d)->(%d,%d) destroy (%d,%d)",
			result.Move.From.R, result.Move.From.C,
			result.Move.To.R, result.Move.To.C,
			result.Move.Destroy.R, result.Move.Destroy.C)
	} else {
		event.Msg("isolation: no legal move")
	}

	return result, nil
}
