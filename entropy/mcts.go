package entropy

import (
	"math"
	"sort"
	"time"

	"golang.org/x/exp/rand"

	"nexus/clock"
)

// node is an MCTS tree node. Nodes live in a flat arena owned by the
// engine and reference each other by index, never by pointer; the
// arena is discarded wholesale after the best move is extracted.
type node struct {
	move     int // cell claimed to reach this node, -1 for the root
	parent   int // arena index, -1 for the root
	children []int32

	wins   float64
	visits float64

	raveWins   float64
	raveVisits float64

	untried []int
	player  Player // the mover that produced this node
}

type MCTS struct {
	cfg    Config
	clk    clock.Clock
	rng    *rand.Rand
	nodes  []node
	root   *State
	toMove Player
}

type Option func(*MCTS)

// WithClock injects the time source used for deadline checks.
func WithClock(c clock.Clock) Option {
	return func(m *MCTS) {
		if c != nil {
			m.clk = c
		}
	}
}

// WithRand injects a seedable generator so playouts are reproducible.
func WithRand(r *rand.Rand) Option {
	return func(m *MCTS) {
		if r != nil {
			m.rng = r
		}
	}
}

// NewMCTS builds an engine rooted at state with toMove to act.
// The root state is owned by the engine for the duration of the
// search; each iteration works on a clone.
func NewMCTS(state *State, toMove Player, cfg Config, options ...Option) *MCTS {
	if toMove == None {
		panic("entropy: search needs a player to move")
	}
	m := &MCTS{
		cfg:    cfg,
		clk:    clock.System(),
		root:   state,
		toMove: toMove,
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	untried := make([]int, len(state.empty))
	copy(untried, state.empty)
	m.nodes = []node{{
		move:    -1,
		parent:  -1,
		untried: untried,
		player:  toMove.Opponent(),
	}}
	return m
}

// MoveInfo describes one root move with its accumulated statistics.
type MoveInfo struct {
	R, C    int
	Visits  int
	Wins    int
	WinRate float64
}

// Result is the engine output: the chosen move plus diagnostics.
type Result struct {
	Best         MoveInfo
	HasMove      bool
	Alternatives []MoveInfo
	Simulations  int
	Elapsed      time.Duration
	NPS          float64
}

// Search runs simulations until the simulation cap or the wall-clock
// budget is exhausted, whichever comes first. The deadline is checked
// on every iteration because a single iteration's cost grows with the
// tree and is not bounded.
func (m *MCTS) Search(budget time.Duration) Result {
	start := m.clk.Now()
	iterations := 0
	for iterations < m.cfg.MaxSimulations {
		if m.clk.Now().Sub(start) >= budget {
			break
		}
		m.step()
		iterations++
	}
	elapsed := m.clk.Now().Sub(start)

	result := m.selectResult()
	result.Simulations = iterations
	result.Elapsed = elapsed
	if secs := elapsed.Seconds(); secs > 0 {
		result.NPS = float64(iterations) / secs
	}
	return result
}

// step performs one selection, expansion, playout and backup cycle.
func (m *MCTS) step() {
	state := m.root.Clone()

	curr := m.selectLeaf(state)
	newIdx := m.expand(curr, state)
	winner, winnerMoves := m.playout(newIdx, state)
	m.backpropagate(newIdx, winner, winnerMoves)
}

// selectLeaf walks from the root while the current node is fully
// expanded and has children, replaying each chosen move onto state.
func (m *MCTS) selectLeaf(state *State) int {
	curr := 0
	for {
		n := &m.nodes[curr]
		if len(n.untried) > 0 || len(n.children) == 0 {
			return curr
		}
		best := m.pickChild(n)
		child := &m.nodes[best]
		state.Apply(child.move, child.player)
		curr = best
	}
}

// pickChild maximizes the UCT score blended with the RAVE estimate:
// (1-beta)*meanWin + beta*raveMean + C*sqrt(ln(N)/n), with
// beta = K/(K + n + raveN*0.1). Unvisited children default to 0.5
// exploitation and a full exploration bonus so they get tried.
func (m *MCTS) pickChild(n *node) int {
	bestScore := math.Inf(-1)
	best := int(n.children[0])
	logVisits := math.Log(n.visits)
	for _, ci := range n.children {
		child := &m.nodes[ci]

		exploit := 0.5
		explore := 1.0
		if child.visits > 0 {
			exploit = child.wins / child.visits
			explore = m.cfg.ExplorationConstant * math.Sqrt(logVisits/child.visits)
		}

		raveExploit := 0.5
		beta := 0.0
		if child.raveVisits > 0 {
			raveExploit = child.raveWins / child.raveVisits
			beta = m.cfg.RaveConstant / (m.cfg.RaveConstant + child.visits + child.raveVisits*0.1)
		}

		score := (1.0-beta)*exploit + beta*raveExploit + explore
		if score > bestScore {
			bestScore = score
			best = int(ci)
		}
	}
	return best
}

// expand materializes one child of nodeIdx: a bounded random sample
// of the untried moves is scored by the cheap placement heuristic and
// the best is kept. Terminal and exhausted nodes return themselves.
func (m *MCTS) expand(nodeIdx int, state *State) int {
	n := &m.nodes[nodeIdx]
	if len(n.untried) == 0 {
		return nodeIdx
	}
	mover := n.player.Opponent()

	sampleCount := m.cfg.ExpansionSampleLimit
	if sampleCount > len(n.untried) {
		sampleCount = len(n.untried)
	}
	bestPos := 0
	bestScore := math.MinInt32
	for i := 0; i < sampleCount; i++ {
		pos := m.rng.Intn(len(n.untried))
		cell := n.untried[pos]
		score := m.expansionScore(state, cell, mover)
		if score > bestScore {
			bestScore = score
			bestPos = pos
		}
	}

	move := n.untried[bestPos]
	n.untried[bestPos] = n.untried[len(n.untried)-1]
	n.untried = n.untried[:len(n.untried)-1]

	state.Apply(move, mover)

	untried := make([]int, len(state.empty))
	copy(untried, state.empty)
	newIdx := len(m.nodes)
	m.nodes = append(m.nodes, node{
		move:    move,
		parent:  nodeIdx,
		untried: untried,
		player:  mover,
	})
	m.nodes[nodeIdx].children = append(m.nodes[nodeIdx].children, int32(newIdx))
	return newIdx
}

// expansionScore combines centrality, bridge potential and locality
// to the previous move.
func (m *MCTS) expansionScore(state *State, cell int, mover Player) int {
	r := cell / Cols
	c := cell % Cols
	score := 0

	distFromCenter := abs(r-Rows/2) + abs(c-Cols/2)
	score -= distFromCenter * 2

	score += state.bridgeScore(cell, mover)

	if state.lastMove >= 0 {
		lr := state.lastMove / Cols
		lc := state.lastMove % Cols
		if abs(r-lr)+abs(c-lc) <= 3 {
			score += 20
		}
	}
	return score
}

// playout plays the game out with (mostly) random moves and returns
// the winner together with the set of cells the winner played, which
// feeds the RAVE statistics.
func (m *MCTS) playout(nodeIdx int, state *State) (Player, []bool) {
	mover := m.nodes[nodeIdx].player.Opponent()
	var played [Cells]Player

	for {
		if winner := state.Winner(); winner != None {
			winnerMoves := make([]bool, Cells)
			for cell, p := range played {
				if p == winner {
					winnerMoves[cell] = true
				}
			}
			return winner, winnerMoves
		}
		if len(state.empty) == 0 {
			return None, nil
		}

		var move int
		if m.rng.Float64() < m.cfg.PlayoutHeuristicProb && len(state.empty) < 80 {
			// Biased pick: sample a few cells, keep the best bridge.
			move = state.empty[0]
			bestScore := math.MinInt32
			samples := m.cfg.PlayoutSampleLimit
			if samples > len(state.empty) {
				samples = len(state.empty)
			}
			for i := 0; i < samples; i++ {
				cell := state.empty[m.rng.Intn(len(state.empty))]
				if score := state.bridgeScore(cell, mover); score > bestScore {
					bestScore = score
					move = cell
				}
			}
		} else {
			move = state.empty[m.rng.Intn(len(state.empty))]
		}

		state.Apply(move, mover)
		played[move] = mover
		mover = mover.Opponent()
	}
}

// backpropagate walks parent links to the root: every node on the
// path gains a visit, win counts where the node's mover matches the
// winner, and RAVE counters where the node's own move appears in the
// winner's move set.
func (m *MCTS) backpropagate(nodeIdx int, winner Player, winnerMoves []bool) {
	curr := nodeIdx
	for curr >= 0 {
		n := &m.nodes[curr]
		n.visits++
		if n.player == winner {
			n.wins++
		}
		if n.move >= 0 && winnerMoves != nil && winnerMoves[n.move] {
			n.raveVisits++
			if n.player == winner {
				n.raveWins++
			}
		}
		curr = n.parent
	}
}

// temperatureEpsilon guards the visits^(1/T) weighting against a
// near-zero temperature blowing up the exponent.
const temperatureEpsilon = 1e-6

// selectResult picks the final move: top-visited child when the
// temperature is (effectively) zero, otherwise a softmax sample among
// the top five by visits.
func (m *MCTS) selectResult() Result {
	root := &m.nodes[0]
	order := make([]int, len(root.children))
	for i, ci := range root.children {
		order[i] = int(ci)
	}
	sort.Slice(order, func(i, j int) bool {
		return m.nodes[order[i]].visits > m.nodes[order[j]].visits
	})

	var result Result
	if len(order) == 0 {
		return result
	}

	chosen := order[0]
	if m.cfg.SelectionTemperature > temperatureEpsilon {
		limit := 5
		if limit > len(order) {
			limit = len(order)
		}
		weights := make([]float64, limit)
		sum := 0.0
		for i := 0; i < limit; i++ {
			w := math.Pow(m.nodes[order[i]].visits, 1.0/m.cfg.SelectionTemperature)
			weights[i] = w
			sum += w
		}
		if sum > 0 {
			r := m.rng.Float64() * sum
			for i := 0; i < limit; i++ {
				r -= weights[i]
				if r <= 0 {
					chosen = order[i]
					break
				}
			}
		}
	}

	result.Best = m.moveInfo(chosen)
	result.HasMove = true
	limit := 5
	if limit > len(order) {
		limit = len(order)
	}
	for i := 0; i < limit; i++ {
		result.Alternatives = append(result.Alternatives, m.moveInfo(order[i]))
	}
	return result
}

func (m *MCTS) moveInfo(idx int) MoveInfo {
	n := &m.nodes[idx]
	info := MoveInfo{
		R:      n.move / Cols,
		C:      n.move % Cols,
		Visits: int(n.visits),
		Wins:   int(n.wins),
	}
	if n.visits > 0 {
		info.WinRate = n.wins / n.visits
	}
	return info
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
