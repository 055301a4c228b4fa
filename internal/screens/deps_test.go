package screens

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepdeck/internal/store"
)

func TestSummarizeStats(t *testing.T) {
	now := time.Date(2026, 5, 10, 18, 0, 0, 0, time.UTC)
	results := []store.Result{
		{ID: "1", SessionID: "a", Score: 3, TotalQuestions: 4, CompletedAt: now.AddDate(0, 0, -1)},
		{ID: "2", SessionID: "b", Score: 1, TotalQuestions: 4, CompletedAt: now},
		{ID: "3", SessionID: "b", Score: 2, TotalQuestions: 2, CompletedAt: now},
	}

	st := SummarizeStats(results, now)
	assert.Equal(t, 2, st.Sessions)
	assert.InDelta(t, 60.0, st.Accuracy, 0.001)
	assert.Equal(t, 2, st.Streak)
}

func TestSummarizeStats_Empty(t *testing.T) {
	st := SummarizeStats(nil, time.Now())
	assert.Equal(t, Stats{}, st)
}

func TestLoadStats_NoResultStore(t *testing.T) {
	st, err := Deps{}.LoadStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, st.Sessions)
}
