package experiments

import (
	"nexus/experiments/metrics"
)

// RunIsolationFeatureExperiment measures each search feature's
// contribution by pitting the full preset against itself with one
// feature switched off. A feature that matters should show up as a
// win-rate gap and a depth difference in the move records.
func RunIsolationFeatureExperiment() {
	baseline := metrics.AgentConfig{ID: 0, Game: "isolation", Difficulty: 7, Budget: IsolationBudget}
	ablations := []metrics.AgentConfig{
		{ID: 1, Game: "isolation", Difficulty: 7, Budget: IsolationBudget, Disable: "tt"},
		{ID: 2, Game: "isolation", Difficulty: 7, Budget: IsolationBudget, Disable: "killers"},
		{ID: 3, Game: "isolation", Difficulty: 7, Budget: IsolationBudget, Disable: "history"},
		{ID: 4, Game: "isolation", Difficulty: 7, Budget: IsolationBudget, Disable: "aspiration"},
		{ID: 5, Game: "isolation", Difficulty: 7, Budget: IsolationBudget, Disable: "pvs"},
		{ID: 6, Game: "isolation", Difficulty: 7, Budget: IsolationBudget, Disable: "nullmove"},
	}

	matchUps := [][]metrics.AgentConfig{}
	for _, config := range ablations {
		matchUps = append(matchUps, []metrics.AgentConfig{baseline, config})
	}

	runExperiment("isolation_features", append(ablations, baseline), matchUps)
}
