package isolation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nexus/clock"
)

// corridorState confines the player to (0,0)..(0,2) with everything
// else destroyed except the AI corner.
func corridorState() (State, uint64) {
	region := Mask(0, 0) | Mask(0, 1) | Mask(0, 2)
	s := State{
		Player:    Mask(0, 0),
		AI:        Mask(6, 6),
		Destroyed: fullBoard &^ region &^ Mask(6, 6),
	}
	return s, region
}

func TestLongestPath(t *testing.T) {
	t.Run("three cell corridor allows two moves", func(t *testing.T) {
		_, region := corridorState()
		memo := make(map[endgameKey]int)

		got := longestPath(Index(0, 0), Mask(0, 0), region, memo)

		require.Equal(t, 2, got, "Visit (0,1) then (0,2); jumping to (0,2) first strands (0,1)")
	})

	t.Run("single cell region has no moves", func(t *testing.T) {
		memo := make(map[endgameKey]int)
		require.Zero(t, longestPath(Index(3, 3), Mask(3, 3), Mask(3, 3), memo))
	})

	t.Run("memo is keyed by position and visited set", func(t *testing.T) {
		_, region := corridorState()
		memo := make(map[endgameKey]int)
		longestPath(Index(0, 0), Mask(0, 0), region, memo)
		require.NotEmpty(t, memo)
	})
}

func TestSolveEndgame(t *testing.T) {
	t.Run("solves the corridor exactly", func(t *testing.T) {
		s, region := corridorState()

		result := SolveEndgame(s, region, false, time.Second, clock.System())

		require.True(t, result.HasMove)
		require.True(t, result.Exact)
		require.Equal(t, 2, result.Length)
		require.Equal(t, Cell{0, 1}, result.Move.To,
			"The short step preserves the longer walk")
	})

	t.Run("expired budget yields a heuristic answer", func(t *testing.T) {
		s, region := corridorState()
		fake := clock.NewFake(time.Now())
		fake.Advance(time.Hour) // construction time is already past any cutoff

		result := SolveEndgame(s, region, false, -time.Second, fake)

		require.False(t, result.Exact)
	})

	t.Run("ignores moves that leave the region", func(t *testing.T) {
		s, region := corridorState()
		result := SolveEndgame(s, region, false, time.Second, clock.System())
		require.NotZero(t, region&Mask(result.Move.To.R, result.Move.To.C))
	})
}

func TestFindBestEndgameDestroy(t *testing.T) {
	t.Run("prefers cells outside the mover's region", func(t *testing.T) {
		// Wall at column 3 with one spare empty column on each side.
		s := State{
			Player:    Mask(3, 1),
			AI:        Mask(3, 5),
			Destroyed: wall(3) &^ Mask(0, 3),
		}
		partition := DetectPartition(s.PlayerPos(), s.AIPos(), s.Destroyed|Mask(0, 3))

		destroy := findBestEndgameDestroy(s, Cell{3, 1}, partition.PlayerRegion|Mask(0, 3), false)

		require.Zero(t, (partition.PlayerRegion|Mask(0, 3))&Mask(destroy.R, destroy.C),
			"Destroy should land outside the mover's own region")
	})

	t.Run("falls back to the vacated square on a full board", func(t *testing.T) {
		// The slide destination is the only empty cell, so after moving
		// there the just-vacated square is all that is left to destroy.
		s := State{
			Player:    Mask(0, 0),
			AI:        Mask(6, 6),
			Destroyed: fullBoard &^ Mask(0, 0) &^ Mask(6, 6) &^ Mask(0, 1),
		}
		region := FloodFill(Mask(0, 0), s.Destroyed)

		destroy := findBestEndgameDestroy(s, Cell{0, 1}, region, false)
		require.Equal(t, Cell{0, 0}, destroy)

		next := s.Apply(Move{From: Cell{0, 0}, To: Cell{0, 1}, Destroy: destroy}, false)
		require.Zero(t, next.Player&next.Destroyed, "Masks must stay disjoint")
		require.Zero(t, next.AI&next.Destroyed)
	})
}
