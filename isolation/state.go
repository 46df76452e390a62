package isolation

import "math/bits"

// State is the full game position: one bit per piece plus the mask of
// destroyed cells. The three masks are pairwise disjoint and each
// piece mask carries exactly one bit. States are plain values; search
// branches copy them, nothing is undone in place.
type State struct {
	Player    uint64
	AI        uint64
	Destroyed uint64
}

// NewState places the pieces in opposite corners on a clean board.
func NewState() State {
	return State{
		Player: 1 << 0,  // (0,0)
		AI:     1 << 48, // (6,6)
	}
}

// FromRaw builds a state from raw coordinates and a destroyed-cell
// list. Coordinates are clamped to the board, matching the lenient
// contract of the interactive caller.
func FromRaw(playerR, playerC, aiR, aiC int, destroyed []Cell) State {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		if v >= Size {
			return Size - 1
		}
		return v
	}
	var d uint64
	for _, cell := range destroyed {
		d |= Mask(cell.R, cell.C)
	}
	return State{
		Player:    Mask(clamp(playerR), clamp(playerC)),
		AI:        Mask(clamp(aiR), clamp(aiC)),
		Destroyed: d,
	}
}

// Move is a full turn: slide from From to To, then destroy Destroy.
// Score carries ordering metadata during search.
type Move struct {
	From    Cell
	To      Cell
	Destroy Cell
	Score   int
}

// sameSlide compares the slide half of two moves, ignoring destroy
// and score. Killer and PV matching work on slides.
func sameSlide(a, b Move) bool {
	return a.From == b.From && a.To == b.To
}

// Occupied returns every blocked cell: destroyed plus both pieces.
func (s State) Occupied() uint64 {
	return s.Destroyed | s.Player | s.AI
}

// piecePos returns the mover's position, degrading to the default
// corner when the mask is corrupt.
func (s State) piecePos(ai bool) Cell {
	if ai {
		idx, ok := PieceIndex(s.AI)
		if !ok {
			idx = 48
		}
		return Coords(idx)
	}
	idx, ok := PieceIndex(s.Player)
	if !ok {
		idx = 0
	}
	return Coords(idx)
}

// PlayerPos and AIPos expose the piece coordinates with the same
// defensive defaults used internally.
func (s State) PlayerPos() Cell { return s.piecePos(false) }
func (s State) AIPos() Cell     { return s.piecePos(true) }

// Mobility counts the mover's legal slides.
func (s State) Mobility(ai bool) int {
	pos := s.piecePos(ai)
	blocked := s.Occupied()
	return popcount(QueenMoves(pos.R, pos.C, blocked))
}

// SlideMoves enumerates the slide half of every legal move for the
// given side. The destroy half is expanded lazily by the search, so
// Destroy is left zeroed here.
func (s State) SlideMoves(ai bool) []Move {
	myPos := s.piecePos(ai)
	var oppMask uint64
	if ai {
		oppMask = s.Player
	} else {
		oppMask = s.AI
	}
	blocked := s.Destroyed | oppMask

	moveMask := QueenMoves(myPos.R, myPos.C, blocked)
	moves := make([]Move, 0, popcount(moveMask))
	for m := moveMask; m != 0; m &= m - 1 {
		to := Coords(bits.TrailingZeros64(m))
		moves = append(moves, Move{From: myPos, To: to})
	}
	return moves
}

// Apply returns the state after the given side plays mv.
func (s State) Apply(mv Move, ai bool) State {
	next := s
	if ai {
		next.AI = Mask(mv.To.R, mv.To.C)
	} else {
		next.Player = Mask(mv.To.R, mv.To.C)
	}
	next.Destroyed |= Mask(mv.Destroy.R, mv.Destroy.C)
	return next
}

// DestroyedCount returns the number of removed cells, which drives
// the game-phase schedule.
func (s State) DestroyedCount() int { return popcount(s.Destroyed) }
