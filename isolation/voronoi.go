package isolation

// VoronoiResult splits the empty cells by which piece reaches them
// first under simultaneous queen-distance expansion. Cells both
// frontiers reach in the same round are contested.
type VoronoiResult struct {
	PlayerTerritory uint64
	AITerritory     uint64
	Contested       uint64
	PlayerCount     int
	AICount         int
	ContestedCount  int
}

// voronoiMaxRounds bounds the dual-frontier expansion; the board
// diameter under queen moves is far below this.
const voronoiMaxRounds = 20

// Voronoi runs a two-source BFS over queen-move distance. No
// distance arrays are kept: ownership falls out of the order in which
// the frontiers claim cells.
func Voronoi(playerPos, aiPos Cell, destroyed uint64) VoronoiResult {
	playerMask := Mask(playerPos.R, playerPos.C)
	aiMask := Mask(aiPos.R, aiPos.C)
	blocked := destroyed | playerMask | aiMask

	playerFrontier := playerMask
	aiFrontier := aiMask
	playerVisited := playerMask
	aiVisited := aiMask

	var playerTerritory, aiTerritory, contested uint64

	for round := 0; (playerFrontier != 0 || aiFrontier != 0) && round < voronoiMaxRounds; round++ {
		var newPlayer, newAI uint64
		if playerFrontier != 0 {
			newPlayer = ExpandQueen(playerFrontier, blocked) &^ playerVisited
		}
		if aiFrontier != 0 {
			newAI = ExpandQueen(aiFrontier, blocked) &^ aiVisited
		}

		playerTerritory |= newPlayer &^ aiVisited &^ newAI
		aiTerritory |= newAI &^ playerVisited &^ newPlayer
		contested |= newPlayer & newAI

		playerVisited |= newPlayer
		aiVisited |= newAI
		playerFrontier = newPlayer
		aiFrontier = newAI
	}

	return VoronoiResult{
		PlayerTerritory: playerTerritory,
		AITerritory:     aiTerritory,
		Contested:       contested,
		PlayerCount:     popcount(playerTerritory),
		AICount:         popcount(aiTerritory),
		ContestedCount:  popcount(contested),
	}
}
