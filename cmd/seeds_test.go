package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/dataset"
	"github.com/spigell/skillmatch/internal/matching"
)

// tiedDataset has two identical candidates for two identical requesters, so
// the seed decides who goes where.
func tiedDataset() *dataset.Dataset {
	c := func(id string) matching.Candidate {
		return matching.Candidate{ID: id, Skills: []string{"Go"}, Experience: 2, Location: "Lisbon"}
	}
	r := func(id string) matching.Requester {
		return matching.Requester{ID: id, RequiredSkills: []string{"Go"}, MinExperience: 2, Location: "Lisbon"}
	}
	return &dataset.Dataset{
		Candidates: []matching.Candidate{c("C1"), c("C2")},
		Requesters: []matching.Requester{r("R1"), r("R2")},
	}
}

func TestRunSeedsKeepsOrder(t *testing.T) {
	seeds := []int64{7, 3, 11, 0}
	outcomes, err := runSeeds(context.Background(), tiedDataset(), matching.DefaultConfig(), seeds, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, outcomes, len(seeds))

	for i, o := range outcomes {
		assert.Equal(t, seeds[i], o.Seed)
		assert.Len(t, o.Assignments, 2)
		assert.Equal(t, 2, o.Stats.MatchesMade)
		assert.Positive(t, o.Stats.TiesBroken)
	}
}

func TestRunSeedsIsReproducible(t *testing.T) {
	seeds := []int64{5, 5, 5}
	outcomes, err := runSeeds(context.Background(), tiedDataset(), matching.DefaultConfig(), seeds, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, outcomesAgree(outcomes))
}

func TestRunSeedsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runSeeds(ctx, tiedDataset(), matching.DefaultConfig(), []int64{1}, zap.NewNop())
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "seed 1")
}

func TestOutcomesAgree(t *testing.T) {
	a := SeedOutcome{Seed: 1, Assignments: map[string]string{"R1": "C1", "R2": "C2"}}
	b := SeedOutcome{Seed: 2, Assignments: map[string]string{"R1": "C2", "R2": "C1"}}

	assert.True(t, outcomesAgree(nil))
	assert.True(t, outcomesAgree([]SeedOutcome{a}))
	assert.True(t, outcomesAgree([]SeedOutcome{a, a}))
	assert.False(t, outcomesAgree([]SeedOutcome{a, a, b}))
}
