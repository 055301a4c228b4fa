package leaderboard

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/store"
)

func ids(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.UserID
	}
	return out
}

func TestRank_TiesBrokenByUserID(t *testing.T) {
	ranked := Rank([]Entry{
		{UserID: "b", Points: 10},
		{UserID: "a", Points: 10},
		{UserID: "c", Points: 20},
	})
	if got, want := strings.Join(ids(ranked), ","), "c,a,b"; got != want {
		t.Fatalf("order = %s, want %s", got, want)
	}
	for i, e := range ranked {
		if e.Rank != i+1 {
			t.Errorf("%s rank = %d, want %d", e.UserID, e.Rank, i+1)
		}
	}
}

func TestRank_IndependentOfInputOrder(t *testing.T) {
	in := []Entry{{UserID: "x", Points: 5}, {UserID: "y", Points: 5}, {UserID: "z", Points: 5}}
	reversed := []Entry{in[2], in[1], in[0]}
	assert.Equal(t, Rank(in), Rank(reversed))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []Entry{{UserID: "b", Points: 1}, {UserID: "a", Points: 2}}
	Rank(in)
	if in[0].UserID != "b" || in[0].Rank != 0 {
		t.Errorf("input mutated: %+v", in[0])
	}
}

func TestMerge_ReplacesSameID(t *testing.T) {
	ref := []Entry{{UserID: "r1", Points: 50}, {UserID: "me", Points: 1}}
	merged := Merge(ref, Entry{UserID: "me", Points: 70})

	require.Len(t, merged, 2)
	ranked := Rank(merged)
	assert.Equal(t, "me", ranked[0].UserID)
	assert.Equal(t, 70, ranked[0].Points)
	assert.Equal(t, 1, ref[1].Points, "reference untouched")
}

func TestAggregate(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	results := []store.Result{
		{UserID: "u1", DisplayName: "Old Name", ModuleID: catalog.ModuleQuantitative, Score: 7, TotalQuestions: 10, CompletedAt: now.Add(-48 * time.Hour)},
		{UserID: "u1", DisplayName: "New Name", ModuleID: catalog.ModuleReading, Score: 2, TotalQuestions: 10, CompletedAt: now.Add(-time.Hour), IsPartial: true},
		{UserID: "u1", ModuleID: catalog.ModuleReading, Score: 4, TotalQuestions: 10, CompletedAt: now.Add(-24 * time.Hour)},
		{UserID: "u2", Score: 3, TotalQuestions: 10, CompletedAt: now.Add(-72 * time.Hour)},
	}
	entries := Aggregate(results, now)
	require.Len(t, entries, 2)

	u1, ok := Find(entries, "u1")
	require.True(t, ok)
	assert.Equal(t, 13, u1.Points, "partial results count")
	assert.Equal(t, "New Name", u1.DisplayName)
	assert.Equal(t, 3, u1.Streak)

	u2, _ := Find(entries, "u2")
	assert.Equal(t, "u2", u2.DisplayName)
	assert.Equal(t, 0, u2.Streak)
}

func TestDayStreak(t *testing.T) {
	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	d := func(daysAgo int) time.Time { return now.AddDate(0, 0, -daysAgo) }

	tests := []struct {
		name     string
		activity []time.Time
		want     int
	}{
		{"none", nil, 0},
		{"today only", []time.Time{d(0)}, 1},
		{"yesterday keeps streak alive", []time.Time{d(1), d(2)}, 2},
		{"gap of two days", []time.Time{d(2), d(3)}, 0},
		{"same day counted once", []time.Time{d(0), d(0).Add(-time.Hour), d(1)}, 2},
		{"break in the middle", []time.Time{d(0), d(1), d(3), d(4)}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayStreak(tt.activity, now); got != tt.want {
				t.Errorf("DayStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestBoard(t *testing.T) {
	now := time.Now()
	ref := []Entry{{UserID: "ref-a", DisplayName: "A", Points: 10}, {UserID: "ref-b", DisplayName: "B", Points: 30}}
	board := Board(ref, []store.Result{{UserID: "me", DisplayName: "Me", Score: 20, TotalQuestions: 20, CompletedAt: now}}, now)

	assert.Equal(t, []string{"ref-b", "me", "ref-a"}, ids(board))
	me, ok := Find(board, "me")
	require.True(t, ok)
	assert.Equal(t, 2, me.Rank)
	assert.Equal(t, 1, me.Streak)
}

func TestDecodeReference(t *testing.T) {
	entries, err := DecodeReference(strings.NewReader("entries:\n  - {id: r1, name: R, points: 5, streak: 1}\n"))
	require.NoError(t, err)
	assert.Equal(t, []Entry{{UserID: "r1", DisplayName: "R", Points: 5, Streak: 1}}, entries)

	_, err = DecodeReference(strings.NewReader("entries:\n  - {id: r1}\n  - {id: r1}\n"))
	assert.ErrorContains(t, err, "duplicate")

	_, err = DecodeReference(strings.NewReader("entries:\n  - {id: r1, rank: 3}\n"))
	assert.Error(t, err, "rank is derived and must not be supplied")
}

func TestDefaultReference(t *testing.T) {
	entries := DefaultReference()
	assert.NotEmpty(t, entries)
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.UserID, "ref-"))
	}
}
