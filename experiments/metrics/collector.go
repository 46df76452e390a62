package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// AgentConfig identifies one engine configuration under test.
// Disable names a single search feature to switch off, for ablation
// runs; empty means the full preset.
type AgentConfig struct {
	ID         int
	Game       string // "entropy" or "isolation"
	Difficulty int
	Budget     time.Duration
	Disable    string
}

// MoveMetric is one engine decision. Depth/Score/Nodes/Solved are
// filled for alpha-beta agents, Simulations for MCTS agents.
type MoveMetric struct {
	Step        int
	Agent       int // AgentConfig.ID
	Depth       int
	Score       int
	Nodes       uint64
	Simulations int
	Solved      bool
	Duration    time.Duration
}

type GameMetric struct {
	StartingAgent int // AgentConfig.ID
	Winner        string
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalMoves    int
}

// Collector accumulates per-move metrics over one game. Safe for
// concurrent AddMove in case games are ever played in parallel.
type Collector struct {
	startingAgent int
	startTime     time.Time

	mu    sync.Mutex
	moves []MoveMetric

	totalNodes atomic.Uint64
}

func NewCollector(startingAgent int) *Collector {
	return &Collector{
		startingAgent: startingAgent,
		startTime:     time.Now(),
	}
}

func (c *Collector) AddMove(m MoveMetric) {
	c.totalNodes.Add(m.Nodes)
	c.mu.Lock()
	m.Step = len(c.moves) + 1
	c.moves = append(c.moves, m)
	c.mu.Unlock()
}

func (c *Collector) TotalNodes() uint64 {
	return c.totalNodes.Load()
}

// Complete freezes the game metric and returns it with the move log.
func (c *Collector) Complete(winner string) (GameMetric, []MoveMetric) {
	end := time.Now()
	c.mu.Lock()
	moves := c.moves
	c.mu.Unlock()
	return GameMetric{
		StartingAgent: c.startingAgent,
		Winner:        winner,
		StartTime:     c.startTime,
		EndTime:       end,
		Duration:      end.Sub(c.startTime),
		TotalMoves:    len(moves),
	}, moves
}
