package isolation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStateFromBoard(t *testing.T) {
	t.Run("rejects a wrong-sized board", func(t *testing.T) {
		_, err := StateFromBoard(make([]uint8, 48))
		require.Error(t, err)
	})

	t.Run("decodes pieces and destroyed cells", func(t *testing.T) {
		board := make([]uint8, Cells)
		board[Index(2, 3)] = 1
		board[Index(4, 4)] = 2
		board[Index(0, 0)] = 3
		board[Index(6, 6)] = 3

		s, err := StateFromBoard(board)

		require.NoError(t, err)
		require.Equal(t, Cell{2, 3}, s.PlayerPos())
		require.Equal(t, Cell{4, 4}, s.AIPos())
		require.Equal(t, 2, s.DestroyedCount())
	})

	t.Run("missing pieces fall back to the starting corners", func(t *testing.T) {
		s, err := StateFromBoard(make([]uint8, Cells))
		require.NoError(t, err)
		require.Equal(t, Cell{0, 0}, s.PlayerPos())
		require.Equal(t, Cell{6, 6}, s.AIPos())
	})
}

func TestFindBestMove(t *testing.T) {
	board := make([]uint8, Cells)
	board[Index(0, 0)] = 1
	board[Index(6, 6)] = 2

	result, err := FindBestMove(board, true, time.Second, 3)

	require.NoError(t, err)
	require.True(t, result.HasMove)
	require.Equal(t, Cell{6, 6}, result.Move.From)
}
