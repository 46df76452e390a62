package isolation

// PartitionResult reports whether the two pieces can still reach each
// other, and when they cannot, the region each piece is confined to.
// Region masks include the piece's own cell.
type PartitionResult struct {
	IsPartitioned    bool
	PlayerRegionSize int
	AIRegionSize     int
	PlayerRegion     uint64
	AIRegion         uint64
}

// DetectPartition flood-fills queen moves from the player's piece over
// everything but destroyed cells. The opponent's piece is deliberately
// NOT treated as a wall here: it occupies a single cell it will vacate
// on its next move, so for connectivity the two pieces share a region
// whenever the flood touches the AI's cell. Once the board is split
// the two floods cannot overlap.
func DetectPartition(playerPos, aiPos Cell, destroyed uint64) PartitionResult {
	playerMask := Mask(playerPos.R, playerPos.C)
	aiMask := Mask(aiPos.R, aiPos.C)

	playerRegion := FloodFill(playerMask, destroyed)
	if playerRegion&aiMask != 0 {
		return PartitionResult{}
	}

	aiRegion := FloodFill(aiMask, destroyed)

	return PartitionResult{
		IsPartitioned:    true,
		PlayerRegionSize: popcount(playerRegion),
		AIRegionSize:     popcount(aiRegion),
		PlayerRegion:     playerRegion,
		AIRegion:         aiRegion,
	}
}

// WouldPartition reports whether destroying one more cell splits the
// board.
func WouldPartition(playerPos, aiPos Cell, destroyed uint64, destroy Cell) bool {
	return DetectPartition(playerPos, aiPos, destroyed|Mask(destroy.R, destroy.C)).IsPartitioned
}
