package score

import (
	"path/filepath"
	"testing"
	"time"

	"git.lost.host/meutraa/xylo/internal/game"
	"git.lost.host/meutraa/xylo/internal/testdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoad(t *testing.T) {
	r := ruleset(t, "arcade4")
	scorer := &DefaultScorer{}
	require.NoError(t, scorer.Init(filepath.Join(t.TempDir(), "scores.db")))
	defer scorer.Deinit()

	chart, err := testdata.GetChart()
	require.NoError(t, err)

	histories, err := scorer.Load(chart)
	require.NoError(t, err)
	assert.Empty(t, histories)

	inputs := []game.Input{
		{Lane: 2, Time: 515 * time.Millisecond},
		{Lane: 0, Time: 770 * time.Millisecond},
		{Lane: 3, Time: 1020 * time.Millisecond},
	}
	summary := scorer.Replay(chart, r, game.DefaultSchedule(2*time.Second), inputs)
	require.NoError(t, scorer.Save(chart, r, inputs, summary))
	require.NoError(t, scorer.Save(chart, r, inputs[:1], Summary{Score: 100}))

	histories, err = scorer.Load(chart)
	require.NoError(t, err)
	require.Len(t, histories, 2)
	assert.NotEqual(t, histories[0].ID, histories[1].ID)

	var full *History
	for i := range histories {
		if len(histories[i].Inputs) == 3 {
			full = &histories[i]
		}
	}
	require.NotNil(t, full)
	assert.Equal(t, inputs, full.Inputs)
	assert.Equal(t, summary.Score, full.Summary.Score)
	assert.Equal(t, summary.Perfect, full.Summary.Perfect)
	assert.Equal(t, summary.Miss, full.Summary.Miss)
	assert.Equal(t, summary.Passed, full.Summary.Passed)
	assert.Equal(t, "arcade4", full.Ruleset)

	// Replaying the stored inputs gives the same result
	again := scorer.Replay(chart, r, game.DefaultSchedule(2*time.Second), full.Inputs)
	assert.Equal(t, summary.Score, again.Score)

	// A different chart has no history
	other := chart.Clone()
	other.Notes[0].Lane = 1
	histories, err = scorer.Load(other)
	require.NoError(t, err)
	assert.Empty(t, histories)
}

func TestHashIgnoresNoteState(t *testing.T) {
	scorer := &DefaultScorer{}
	chart, err := testdata.GetChart()
	require.NoError(t, err)
	before := scorer.hashChart(chart)
	chart.Notes[0].Judgement = game.Perfect
	chart.Notes[0].HitTime = time.Second
	assert.Equal(t, before, scorer.hashChart(chart))
}
