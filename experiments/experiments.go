package experiments

import (
	"fmt"
	"time"

	"nexus/entropy"
	"nexus/experiments/metrics"
	"nexus/isolation"

	"github.com/rs/zerolog/log"
)

const (
	NumGames        = 30 // Per match up
	EntropyBudget   = 500 * time.Millisecond
	IsolationBudget = 500 * time.Millisecond
)

// RunEntropyStrengthExperiment pits each connection-game difficulty
// tier against the weakest tier as baseline.
func RunEntropyStrengthExperiment() {
	baseline := metrics.AgentConfig{ID: 0, Game: "entropy", Difficulty: 3, Budget: EntropyBudget}
	configs := []metrics.AgentConfig{
		{ID: 1, Game: "entropy", Difficulty: 3, Budget: EntropyBudget},
		{ID: 2, Game: "entropy", Difficulty: 5, Budget: EntropyBudget},
		{ID: 3, Game: "entropy", Difficulty: 7, Budget: EntropyBudget},
	}

	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}

	runExperiment("entropy_strength", append(configs, baseline), matchUps)
}

// RunIsolationStrengthExperiment does the same for the pursuit game.
func RunIsolationStrengthExperiment() {
	baseline := metrics.AgentConfig{ID: 0, Game: "isolation", Difficulty: 3, Budget: IsolationBudget}
	configs := []metrics.AgentConfig{
		{ID: 1, Game: "isolation", Difficulty: 3, Budget: IsolationBudget},
		{ID: 2, Game: "isolation", Difficulty: 5, Budget: IsolationBudget},
		{ID: 3, Game: "isolation", Difficulty: 7, Budget: IsolationBudget},
	}

	matchUps := [][]metrics.AgentConfig{}
	for _, config := range configs {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}

	runExperiment("isolation_strength", append(configs, baseline), matchUps)
}

func runExperiment(name string, configs []metrics.AgentConfig, matchUps [][]metrics.AgentConfig) {
	// Run a number of games for each matchup
	count := 0
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", name)

	for mi, matchup := range matchUps {
		config1 := matchup[0]
		config2 := matchup[1]

		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(matchUps), config1, config2)

		for i := 0; i < NumGames; i++ {
			log.Info().Msgf("starting matchup %d of %d game %d of %d...", mi+1, len(matchUps), i+1, NumGames)

			winner, gameMetric, moveMetrics := runGame(config1, config2)
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent1:     config1.ID,
				Agent2:     config2.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed matchup %d of %d game %d with winner: %s", mi+1, len(matchUps), i+1, winner)
		}
		log.Info().Msgf("completed matchup %d of %d", mi+1, len(matchUps))
	}

	log.Info().Msgf("completed %s experiment", name)

	storeResults(name, configs, gameRecords, moveRecords)
}

func storeResults(name string, configs []metrics.AgentConfig, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) {
	writer, err := metrics.NewWriter(name)
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}

	err = writer.WriteAgentConfigs(configs)
	if err != nil {
		panic(fmt.Sprintf("failed to store agent configs: %v", err))
	}
	log.Info().Msg("stored agent configs")

	err = writer.WriteGameRecords(gameRecords)
	if err != nil {
		panic(fmt.Sprintf("failed to write game records: %v", err))
	}
	log.Info().Msg("stored game records")

	err = writer.WriteMoveRecords(moveRecords)
	if err != nil {
		panic(fmt.Sprintf("failed to write move records: %v", err))
	}
	log.Info().Msg("stored move records")
}

// runGame executes a single game between two agents and returns the
// winner label. Both configs must target the same game.
func runGame(config1, config2 metrics.AgentConfig) (string, metrics.GameMetric, []metrics.MoveMetric) {
	if config1.Game != config2.Game {
		panic(fmt.Sprintf("mismatched games in matchup: %s vs %s", config1.Game, config2.Game))
	}
	if config1.Game == "entropy" {
		return runEntropyGame(config1, config2)
	}
	return runIsolationGame(config1, config2)
}

// runEntropyGame plays one connection game with agent1 as the first
// mover. The game cannot draw: the board fills and one side is
// connected.
func runEntropyGame(config1, config2 metrics.AgentConfig) (string, metrics.GameMetric, []metrics.MoveMetric) {
	collector := metrics.NewCollector(config1.ID)
	state := entropy.NewState()

	toMove := entropy.Human // agent1 plays the Human side
	for state.Winner() == entropy.None && state.EmptyCount() > 0 {
		config := config1
		if toMove == entropy.AI {
			config = config2
		}

		mcts := entropy.NewMCTS(state, toMove, entropy.ConfigForDifficulty(config.Difficulty))
		result := mcts.Search(config.Budget)
		if !result.HasMove {
			break
		}

		state.Apply(result.Best.R*entropy.Cols+result.Best.C, toMove)
		collector.AddMove(metrics.MoveMetric{
			Agent:       config.ID,
			Simulations: result.Simulations,
			Duration:    result.Elapsed,
		})
		toMove = toMove.Opponent()
	}

	winner := "agent1"
	if state.Winner() == entropy.AI {
		winner = "agent2"
	}
	gameMetric, moveMetrics := collector.Complete(winner)
	return winner, gameMetric, moveMetrics
}

// runIsolationGame plays one pursuit game with agent1 as the first
// mover on the Player piece. The mover with no move loses.
func runIsolationGame(config1, config2 metrics.AgentConfig) (string, metrics.GameMetric, []metrics.MoveMetric) {
	collector := metrics.NewCollector(config1.ID)
	state := isolation.NewState()

	engine1 := isolation.NewEngine(isolationConfig(config1))
	engine2 := isolation.NewEngine(isolationConfig(config2))

	aiToMove := false // agent1 plays the Player piece
	for {
		if state.Mobility(aiToMove) == 0 {
			break
		}

		config, engine := config1, engine1
		if aiToMove {
			config, engine = config2, engine2
		}

		result := engine.Search(state, aiToMove, config.Budget)
		if !result.HasMove {
			break
		}

		state = state.Apply(result.Move, aiToMove)
		collector.AddMove(metrics.MoveMetric{
			Agent:    config.ID,
			Depth:    result.Depth,
			Score:    result.Score,
			Nodes:    result.Nodes,
			Solved:   result.Solved,
			Duration: result.Elapsed,
		})
		aiToMove = !aiToMove
	}

	// The side to move is stuck, so the other side wins.
	winner := "agent1"
	if !aiToMove {
		winner = "agent2"
	}
	gameMetric, moveMetrics := collector.Complete(winner)
	return winner, gameMetric, moveMetrics
}

// isolationConfig translates an agent config into engine settings,
// honoring a single disabled feature for ablation runs.
func isolationConfig(config metrics.AgentConfig) isolation.Config {
	cfg := isolation.ConfigForDifficulty(config.Difficulty)
	switch config.Disable {
	case "tt":
		cfg.UseTT = false
	case "killers":
		cfg.UseKillers = false
	case "history":
		cfg.UseHistory = false
	case "aspiration":
		cfg.UseAspiration = false
	case "pvs":
		cfg.UsePVS = false
	case "nullmove":
		cfg.UseNullMove = false
	}
	return cfg
}
