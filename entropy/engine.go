package entropy

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// FindBestMove is the external entry point. The board is a flat
// array of Cells values (0 empty, 1 human, 2 AI); aiToMove selects
// the side to compute for. A wrong board length is the only hard
// failure; everything else degrades to a best-effort answer.
func FindBestMove(board []uint8, aiToMove bool, budget time.Duration, difficulty int, options ...Option) (Result, error) {
	if len(board) != Cells {
		return Result{}, fmt.Errorf("entropy: board has %d cells, want %d", len(board), Cells)
	}

	state := NewState()
	for i, v := range board {
		switch v {
		case 1:
			state.Apply(i, Human)
		case 2:
			state.Apply(i, AI)
		}
	}

	toMove := Human
	if aiToMove {
		toMove = AI
	}

	cfg := ConfigForDifficulty(difficulty)
	engine := NewMCTS(state, toMove, cfg, options...)
	result := engine.Search(budget)

	log.Info().
		Int("simulations", result.Simulations).
		Dur("elapsed", result.Elapsed).
		Float64("nps", result.NPS).
		Float64("win_rate", result.Best.WinRate).
		Msgf("entropy: best move (%d,%d)", result.Best.R, result.Best.C)

	return result, nil
}
