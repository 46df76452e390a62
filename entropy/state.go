// Package entropy implements the move engine for an 11x11 hexagonal
// connection game. The human player wins by connecting the left and
// right board edges, the AI by connecting top and bottom. Moves are
// selected by a Monte-Carlo tree search with RAVE statistics.
package entropy

const (
	Rows  = 11
	Cols  = 11
	Cells = Rows * Cols
)

// Virtual terminal nodes appended after the board cells. Each player
// has its own Union-Find, so the same two slots serve both axes.
const (
	virtualLeft   = Cells
	virtualRight  = Cells + 1
	virtualTop    = Cells
	virtualBottom = Cells + 1
)

type Player uint8

const (
	None Player = iota
	Human
	AI
)

func (p Player) Opponent() Player {
	switch p {
	case Human:
		return AI
	case AI:
		return Human
	}
	return None
}

func (p Player) String() string {
	switch p {
	case Human:
		return "human"
	case AI:
		return "ai"
	}
	return "none"
}

// State holds board occupancy plus the incremental structures needed
// to answer "has a player won" in near-constant time. States are
// cloned when search branches and never mutated across branches.
type State struct {
	board []Player

	// empty is the list of playable cells; emptyPos is its inverse:
	// emptyPos[empty[i]] == i at all times. Removal is by swap with
	// the last element so both stay O(1) per move.
	empty    []int
	emptyPos []int

	ufHuman *UnionFind
	ufAI    *UnionFind

	lastMove  int // -1 before the first move
	turnCount int
}

func NewState() *State {
	empty := make([]int, Cells)
	emptyPos := make([]int, Cells)
	for i := 0; i < Cells; i++ {
		empty[i] = i
		emptyPos[i] = i
	}
	s := &State{
		board:    make([]Player, Cells),
		empty:    empty,
		emptyPos: emptyPos,
		ufHuman:  NewUnionFind(Cells + 2),
		ufAI:     NewUnionFind(Cells + 2),
		lastMove: -1,
	}
	s.initVirtualEdges()
	return s
}

func (s *State) initVirtualEdges() {
	for r := 0; r < Rows; r++ {
		for c := 0; c < Cols; c++ {
			idx := r*Cols + c
			if c == 0 {
				s.ufHuman.Union(idx, virtualLeft)
			}
			if c == Cols-1 {
				s.ufHuman.Union(idx, virtualRight)
			}
			if r == 0 {
				s.ufAI.Union(idx, virtualTop)
			}
			if r == Rows-1 {
				s.ufAI.Union(idx, virtualBottom)
			}
		}
	}
}

// Clone returns a deep copy sharing nothing with the receiver.
func (s *State) Clone() *State {
	board := make([]Player, Cells)
	copy(board, s.board)
	empty := make([]int, len(s.empty))
	copy(empty, s.empty)
	emptyPos := make([]int, Cells)
	copy(emptyPos, s.emptyPos)
	return &State{
		board:     board,
		empty:     empty,
		emptyPos:  emptyPos,
		ufHuman:   s.ufHuman.Clone(),
		ufAI:      s.ufAI.Clone(),
		lastMove:  s.lastMove,
		turnCount: s.turnCount,
	}
}

var evenRowOffsets = [6][2]int{{-1, -1}, {-1, 0}, {0, -1}, {0, 1}, {1, -1}, {1, 0}}
var oddRowOffsets = [6][2]int{{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, 0}, {1, 1}}

// Neighbors appends the hex neighbors of idx to buf and returns it.
// Offsets depend on row parity; edge cells have fewer than six.
func Neighbors(idx int, buf []int) []int {
	r := idx / Cols
	c := idx % Cols
	offsets := &oddRowOffsets
	if r%2 == 0 {
		offsets = &evenRowOffsets
	}
	for _, d := range offsets {
		nr, nc := r+d[0], c+d[1]
		if nr >= 0 && nr < Rows && nc >= 0 && nc < Cols {
			buf = append(buf, nr*Cols+nc)
		}
	}
	return buf
}

// Apply claims cell idx for p, maintaining the empty list, its
// inverse map and both Union-Find structures.
func (s *State) Apply(idx int, p Player) {
	s.board[idx] = p
	s.lastMove = idx

	pos := s.emptyPos[idx]
	last := len(s.empty) - 1
	lastCell := s.empty[last]
	s.empty[pos] = lastCell
	s.empty = s.empty[:last]
	if pos != last {
		s.emptyPos[lastCell] = pos
	}

	var scratch [6]int
	neighbors := Neighbors(idx, scratch[:0])
	switch p {
	case Human:
		for _, n := range neighbors {
			if s.board[n] == Human {
				s.ufHuman.Union(idx, n)
			}
		}
	case AI:
		for _, n := range neighbors {
			if s.board[n] == AI {
				s.ufAI.Union(idx, n)
			}
		}
	}
	s.turnCount++
}

// Winner returns the connected player, or None while the game is
// still open.
func (s *State) Winner() Player {
	if s.ufHuman.Connected(virtualLeft, virtualRight) {
		return Human
	}
	if s.ufAI.Connected(virtualTop, virtualBottom) {
		return AI
	}
	return None
}

// EmptyCount returns the number of playable cells.
func (s *State) EmptyCount() int { return len(s.empty) }

// Cell returns the occupant of idx.
func (s *State) Cell(idx int) Player { return s.board[idx] }

// bridgeScore is the cheap placement heuristic shared by expansion
// and the biased playout policy: cells touching two or more own
// stones extend a connection, cells touching two or more enemy
// stones block one.
func (s *State) bridgeScore(idx int, p Player) int {
	var scratch [6]int
	opponent := p.Opponent()
	mine, theirs := 0, 0
	for _, n := range Neighbors(idx, scratch[:0]) {
		switch s.board[n] {
		case p:
			mine++
		case opponent:
			theirs++
		}
	}
	score := 0
	if mine >= 2 {
		score += 40
	}
	if theirs >= 2 {
		score += 60
	}
	return score
}
