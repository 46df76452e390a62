package isolation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpeningMove(t *testing.T) {
	t.Run("opening prefers the center area", func(t *testing.T) {
		mv, ok := OpeningMove(NewState(), true)

		require.True(t, ok)
		dist := abs(mv.To.R-3) + abs(mv.To.C-3)
		require.LessOrEqual(t, dist, 3, "Opening move should head toward the center")
	})

	t.Run("destroy target is a legal empty cell", func(t *testing.T) {
		s := NewState()
		mv, ok := OpeningMove(s, true)

		require.True(t, ok)
		destroyMask := Mask(mv.Destroy.R, mv.Destroy.C)
		require.NotZero(t, destroyMask)
		require.Zero(t, destroyMask&(s.Occupied()|Mask(mv.To.R, mv.To.C)))
	})

	t.Run("no moves means no book entry", func(t *testing.T) {
		sealed := State{
			Player:    Mask(0, 0),
			AI:        Mask(6, 6),
			Destroyed: Mask(0, 1) | Mask(1, 0) | Mask(1, 1),
		}
		_, ok := OpeningMove(sealed, false)
		require.False(t, ok)
	})

	t.Run("works for either side", func(t *testing.T) {
		mv, ok := OpeningMove(NewState(), false)
		require.True(t, ok)
		require.Equal(t, Cell{0, 0}, mv.From)
	})
}

func TestEvaluateOpeningMove(t *testing.T) {
	s := NewState()
	center := Move{From: Cell{6, 6}, To: Cell{3, 3}}
	nearCorner := Move{From: Cell{6, 6}, To: Cell{6, 5}}

	require.Greater(t,
		evaluateOpeningMove(s, center, true, 4),
		evaluateOpeningMove(s, nearCorner, true, 4),
		"Center moves should outscore rim moves")
}
