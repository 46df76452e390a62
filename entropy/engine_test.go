package entropy

import (
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/require"
)

func TestFindBestMove(t *testing.T) {
	t.Run("rejects a wrong-sized board", func(t *testing.T) {
		_, err := FindBestMove(make([]uint8, 100), true, time.Second, 3)
		require.Error(t, err)
	})

	t.Run("answers on a mid-game board", func(t *testing.T) {
		board := make([]uint8, Cells)
		board[5*Cols+5] = 1
		board[5*Cols+6] = 2
		board[6*Cols+5] = 1

		result, err := FindBestMove(board, true, 200*time.Millisecond, 3,
			WithRand(rand.New(rand.NewSource(2))))

		require.NoError(t, err)
		require.True(t, result.HasMove)
		idx := result.Best.R*Cols + result.Best.C
		require.Zero(t, board[idx], "Chosen cell must be empty")
		require.Positive(t, result.Simulations)
	})
}
