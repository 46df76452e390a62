// Package isolation implements the move engine for a 7x7 pursuit and
// territory game. Each turn a player slides a piece like a chess
// queen to an empty cell and then destroys one empty cell; a player
// loses when it is their turn and the piece has no legal slide.
//
// The board fits a 64-bit mask: bit 0 is (0,0), bit 6 is (0,6),
// bit 7 is (1,0), bit 48 is (6,6).
package isolation

import "math/bits"

const (
	Size  = 7
	Cells = 49
)

// Cell is a board coordinate.
type Cell struct {
	R, C int
}

func Index(r, c int) int { return r*Size + c }

func Coords(idx int) Cell { return Cell{R: idx / Size, C: idx % Size} }

// Mask returns the single-bit mask for (r,c), or 0 when the
// coordinate is off the board.
func Mask(r, c int) uint64 {
	if r < 0 || r >= Size || c < 0 || c >= Size {
		return 0
	}
	return 1 << uint(r*Size+c)
}

const (
	maskCol0 uint64 = 1<<0 | 1<<7 | 1<<14 | 1<<21 | 1<<28 | 1<<35 | 1<<42
	maskCol6 uint64 = 1<<6 | 1<<13 | 1<<20 | 1<<27 | 1<<34 | 1<<41 | 1<<48

	notCol0 = ^maskCol0
	notCol6 = ^maskCol6

	fullBoard uint64 = 1<<Cells - 1
)

// queenShift is one ray direction expressed as a shift amount plus
// the wrap mask that keeps the shift from leaking across the row
// boundary inside the 49-bit layout.
type queenShift struct {
	left  bool
	bits  uint
	avoid uint64
}

var queenShifts = [8]queenShift{
	{left: true, bits: 7, avoid: ^uint64(0)}, // north
	{left: false, bits: 7, avoid: ^uint64(0)}, // south
	{left: true, bits: 1, avoid: notCol0},  // east
	{left: false, bits: 1, avoid: notCol6}, // west
	{left: true, bits: 8, avoid: notCol0},  // north-east
	{left: true, bits: 6, avoid: notCol6},  // north-west
	{left: false, bits: 6, avoid: notCol0}, // south-east
	{left: false, bits: 8, avoid: notCol6}, // south-west
}

// ExpandQueen dilates source along all 8 queen directions at once,
// stopping each ray at the first blocked cell. This is the
// throughput-oriented form; RayQueenMoves is the reference
// implementation it is validated against.
func ExpandQueen(source, blocked uint64) uint64 {
	empty := ^blocked & fullBoard
	var expanded uint64
	for _, s := range queenShifts {
		fill := source
		for i := 0; i < Size-1; i++ {
			if s.left {
				fill = (fill << s.bits) & s.avoid & empty
			} else {
				fill = (fill >> s.bits) & s.avoid & empty
			}
			if fill == 0 {
				break
			}
			expanded |= fill
		}
	}
	return expanded & fullBoard
}

// QueenMoves returns the slide destinations from (r,c) given blocked
// occupancy.
func QueenMoves(r, c int, blocked uint64) uint64 {
	return ExpandQueen(Mask(r, c), blocked)
}

var rayDirections = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// RayQueenMoves generates the same move set as QueenMoves by walking
// each of the 8 directions until the first blocked cell. Kept as the
// slow oracle for the bit-parallel form.
func RayQueenMoves(r, c int, blocked uint64) uint64 {
	var moves uint64
	for _, d := range rayDirections {
		nr, nc := r+d[0], c+d[1]
		for nr >= 0 && nr < Size && nc >= 0 && nc < Size {
			m := Mask(nr, nc)
			if blocked&m != 0 {
				break
			}
			moves |= m
			nr += d[0]
			nc += d[1]
		}
	}
	return moves
}

// FloodFill returns every cell reachable from start through repeated
// queen moves, start included.
func FloodFill(start, blocked uint64) uint64 {
	reachable := start
	frontier := start
	for frontier != 0 {
		next := ExpandQueen(frontier, blocked|reachable) &^ reachable
		reachable |= next
		frontier = next
	}
	return reachable
}

// PieceIndex extracts the bit index from a single-piece mask. The
// second return is false for an empty or out-of-range mask so
// callers can degrade instead of crashing on corrupt input.
func PieceIndex(mask uint64) (int, bool) {
	if mask == 0 {
		return 0, false
	}
	idx := bits.TrailingZeros64(mask)
	if idx >= Cells {
		return 0, false
	}
	return idx, true
}

func popcount(mask uint64) int { return bits.OnesCount64(mask) }

func manhattan(a, b Cell) int { return abs(a.R-b.R) + abs(a.C-b.C) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
