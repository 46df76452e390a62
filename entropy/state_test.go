package entropy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStateApply(t *testing.T) {
	t.Run("claims cell and shrinks empty list", func(t *testing.T) {
		s := NewState()
		require.Equal(t, Cells, s.EmptyCount())

		s.Apply(60, Human)

		require.Equal(t, Human, s.Cell(60))
		require.Equal(t, Cells-1, s.EmptyCount())
		require.Equal(t, 60, s.lastMove)
	})

	t.Run("empty list inverse map stays consistent", func(t *testing.T) {
		s := NewState()
		for _, idx := range []int{0, 120, 60, 5, 119} {
			s.Apply(idx, AI)
		}

		for i, cell := range s.empty {
			require.Equal(t, i, s.emptyPos[cell], "emptyPos must invert empty after swap-removal")
			require.Equal(t, None, s.board[cell], "Empty list must only hold unclaimed cells")
		}
	})

	t.Run("clone shares nothing with the original", func(t *testing.T) {
		s := NewState()
		s.Apply(10, Human)

		c := s.Clone()
		c.Apply(20, AI)

		require.Equal(t, None, s.Cell(20))
		require.Equal(t, s.EmptyCount()-1, c.EmptyCount())
	})
}

func TestNeighbors(t *testing.T) {
	t.Run("even row uses even offsets", func(t *testing.T) {
		// Cell (2,5) = 27: neighbors (1,4),(1,5),(2,4),(2,6),(3,4),(3,5)
		got := Neighbors(2*Cols+5, nil)
		require.ElementsMatch(t, []int{
			1*Cols + 4, 1*Cols + 5,
			2*Cols + 4, 2*Cols + 6,
			3*Cols + 4, 3*Cols + 5,
		}, got)
	})

	t.Run("odd row uses odd offsets", func(t *testing.T) {
		// Cell (3,5) = 38: neighbors (2,5),(2,6),(3,4),(3,6),(4,5),(4,6)
		got := Neighbors(3*Cols+5, nil)
		require.ElementsMatch(t, []int{
			2*Cols + 5, 2*Cols + 6,
			3*Cols + 4, 3*Cols + 6,
			4*Cols + 5, 4*Cols + 6,
		}, got)
	})

	t.Run("corner has fewer neighbors", func(t *testing.T) {
		got := Neighbors(0, nil)
		require.Len(t, got, 2, "Top-left corner touches only (0,1) and (1,0) on even-row offsets")
		require.ElementsMatch(t, []int{1, Cols}, got)
	})
}

func TestWinner(t *testing.T) {
	t.Run("open board has no winner", func(t *testing.T) {
		require.Equal(t, None, NewState().Winner())
	})

	t.Run("human wins by spanning left to right", func(t *testing.T) {
		s := NewState()
		for c := 0; c < Cols; c++ {
			require.Equal(t, None, s.Winner(), "No winner before the span is complete")
			s.Apply(4*Cols+c, Human)
		}
		require.Equal(t, Human, s.Winner())
	})

	t.Run("ai wins by spanning top to bottom", func(t *testing.T) {
		s := NewState()
		for r := 0; r < Rows; r++ {
			s.Apply(r*Cols+7, AI)
		}
		require.Equal(t, AI, s.Winner())
	})

	t.Run("row of ai stones does not connect top and bottom", func(t *testing.T) {
		s := NewState()
		for c := 0; c < Cols; c++ {
			s.Apply(4*Cols+c, AI)
		}
		require.Equal(t, None, s.Winner())
	})
}

func TestBridgeScore(t *testing.T) {
	s := NewState()
	// Two human stones adjacent to (2,5): (1,4) and (1,5).
	s.Apply(1*Cols+4, Human)
	s.Apply(1*Cols+5, Human)

	idx := 2*Cols + 5
	require.Equal(t, 40, s.bridgeScore(idx, Human), "Two own neighbors extend a connection")
	require.Equal(t, 60, s.bridgeScore(idx, AI), "Two enemy neighbors make a blocking cell")
	require.Equal(t, 0, s.bridgeScore(8*Cols+8, Human), "Isolated cell scores nothing")
}
