package main

import (
	"flag"
	"os"
	"time"

	"nexus/entropy"
	"nexus/experiments"
	"nexus/isolation"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	game := flag.String("game", "isolation", "Game to play: entropy or isolation")
	difficulty := flag.Int("difficulty", 7, "Difficulty level: 3, 5 or 7")
	budget := flag.Duration("budget", 2*time.Second, "Time budget per move")
	experiment := flag.String("experiment", "", "Run an experiment instead of a demo game: entropy_strength, isolation_strength or isolation_features")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch *experiment {
	case "":
	case "entropy_strength":
		experiments.RunEntropyStrengthExperiment()
		return
	case "isolation_strength":
		experiments.RunIsolationStrengthExperiment()
		return
	case "isolation_features":
		experiments.RunIsolationFeatureExperiment()
		return
	default:
		log.Fatal().Msgf("unknown experiment %q", *experiment)
	}

	switch *game {
	case "entropy":
		demoEntropy(*difficulty, *budget)
	case "isolation":
		demoIsolation(*difficulty, *budget)
	default:
		log.Fatal().Msgf("unknown game %q", *game)
	}
}

// demoEntropy self-plays one connection game, both sides using the
// same difficulty.
func demoEntropy(difficulty int, budget time.Duration) {
	state := entropy.NewState()
	cfg := entropy.ConfigForDifficulty(difficulty)

	toMove := entropy.Human
	for state.Winner() == entropy.None && state.EmptyCount() > 0 {
		result := entropy.NewMCTS(state, toMove, cfg).Search(budget)
		if !result.HasMove {
			break
		}
		state.Apply(result.Best.R*entropy.Cols+result.Best.C, toMove)
		log.Info().
			Str("side", toMove.String()).
			Int("simulations", result.Simulations).
			Float64("win_rate", result.Best.WinRate).
			Msgf("played (%d,%d)", result.Best.R, result.Best.C)
		toMove = toMove.Opponent()
	}
	log.Info().Msgf("winner: %s", state.Winner())
}

// demoIsolation self-plays one pursuit game, both sides using the
// same difficulty.
func demoIsolation(difficulty int, budget time.Duration) {
	state := isolation.NewState()
	cfg := isolation.ConfigForDifficulty(difficulty)
	engines := map[bool]*isolation.Engine{
		false: isolation.NewEngine(cfg),
		true:  isolation.NewEngine(cfg),
	}

	aiToMove := false
	for state.Mobility(aiToMove) > 0 {
		result := engines[aiToMove].Search(state, aiToMove, budget)
		if !result.HasMove {
			break
		}
		state = state.Apply(result.Move, aiToMove)
		log.Info().
			Bool("ai", aiToMove).
			Int("depth", result.Depth).
			Int("score", result.Score).
			Uint64("nodes", result.Nodes).
			Bool("solved", result.Solved).
			Msgf("played (%d,%d)->(%d,%d) destroy (%d,%d)",
				result.Move.From.R, result.Move.From.C,
				result.Move.To.R, result.Move.To.C,
				result.Move.Destroy.R, result.Move.Destroy.C)
		aiToMove = !aiToMove
	}

	loser := "ai"
	if !aiToMove {
		loser = "player"
	}
	log.Info().Msgf("%s has no moves, game over", loser)
}
