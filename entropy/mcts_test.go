package entropy

import (
	"testing"
	"time"

	"golang.org/x/exp/rand"

	"github.com/stretchr/testify/require"

	"nexus/clock"
)

func testConfig(simulations int) Config {
	cfg := ConfigForDifficulty(3)
	cfg.MaxSimulations = simulations
	cfg.SelectionTemperature = 0 // deterministic pick for assertions
	return cfg
}

func TestMCTSStep(t *testing.T) {
	t.Run("each cycle adds one visit to the root", func(t *testing.T) {
		m := NewMCTS(NewState(), AI, testConfig(100), WithRand(rand.New(rand.NewSource(1))))
		require.Zero(t, m.nodes[0].visits)

		for i := 1; i <= 50; i++ {
			m.step()
			require.Equal(t, float64(i), m.nodes[0].visits)
		}
	})

	t.Run("expansion attaches children below the root", func(t *testing.T) {
		m := NewMCTS(NewState(), AI, testConfig(100), WithRand(rand.New(rand.NewSource(1))))
		m.step()

		require.Len(t, m.nodes, 2, "First cycle should expand exactly one child")
		child := m.nodes[1]
		require.Equal(t, 0, child.parent)
		require.Equal(t, AI, child.player, "Root mover owns the first layer of children")
		require.Equal(t, float64(1), child.visits)
	})

	t.Run("child visits sum to root visits", func(t *testing.T) {
		m := NewMCTS(NewState(), Human, testConfig(100), WithRand(rand.New(rand.NewSource(7))))
		for i := 0; i < 200; i++ {
			m.step()
		}

		sum := 0.0
		for _, ci := range m.nodes[0].children {
			sum += m.nodes[ci].visits
		}
		require.Equal(t, m.nodes[0].visits, sum)
	})
}

func TestMCTSSearch(t *testing.T) {
	t.Run("runs the full simulation cap when time stands still", func(t *testing.T) {
		fake := clock.NewFake(time.Now())
		m := NewMCTS(NewState(), AI, testConfig(300),
			WithClock(fake), WithRand(rand.New(rand.NewSource(3))))

		result := m.Search(time.Second)

		require.Equal(t, 300, result.Simulations)
		require.True(t, result.HasMove)
	})

	t.Run("stops at the deadline", func(t *testing.T) {
		fake := clock.NewFake(time.Now())
		m := NewMCTS(NewState(), AI, testConfig(1_000_000),
			WithClock(fake), WithRand(rand.New(rand.NewSource(3))))

		result := m.Search(0)

		require.Zero(t, result.Simulations, "A zero budget should run nothing")
		require.False(t, result.HasMove)
	})

	t.Run("avoids corners on an open board", func(t *testing.T) {
		m := NewMCTS(NewState(), AI, testConfig(1000), WithRand(rand.New(rand.NewSource(11))))
		result := m.Search(time.Minute)

		require.True(t, result.HasMove)
		corners := [][2]int{{0, 0}, {0, Cols - 1}, {Rows - 1, 0}, {Rows - 1, Cols - 1}}
		for _, corner := range corners {
			require.False(t, result.Best.R == corner[0] && result.Best.C == corner[1],
				"Opening move should not be a corner")
		}
	})

	t.Run("zero temperature picks the most visited move", func(t *testing.T) {
		m := NewMCTS(NewState(), Human, testConfig(500), WithRand(rand.New(rand.NewSource(5))))
		result := m.Search(time.Minute)

		require.True(t, result.HasMove)
		for _, alt := range result.Alternatives {
			require.GreaterOrEqual(t, result.Best.Visits, alt.Visits,
				"Deterministic selection must return the visit leader")
		}
	})

	t.Run("same seed reproduces the same move", func(t *testing.T) {
		first := NewMCTS(NewState(), AI, testConfig(400), WithRand(rand.New(rand.NewSource(9)))).Search(time.Minute)
		second := NewMCTS(NewState(), AI, testConfig(400), WithRand(rand.New(rand.NewSource(9)))).Search(time.Minute)

		require.Equal(t, first.Best.R, second.Best.R)
		require.Equal(t, first.Best.C, second.Best.C)
	})
}

func TestNewMCTSValidation(t *testing.T) {
	require.Panics(t, func() {
		NewMCTS(NewState(), None, testConfig(10))
	}, "A search without a mover is a programming error")
}
