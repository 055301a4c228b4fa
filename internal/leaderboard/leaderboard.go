// Package leaderboard ranks users by accumulated points.
package leaderboard

import (
	"cmp"
	"slices"
	"time"

	"github.com/abhisek/prepdeck/internal/store"
)

// Entry is one row of the leaderboard. Rank is assigned by Rank and never
// stored.
type Entry struct {
	UserID      string `yaml:"id" json:"userId"`
	DisplayName string `yaml:"name" json:"displayName"`
	Points      int    `yaml:"points" json:"points"`
	Streak      int    `yaml:"streak" json:"streak"`
	Rank        int    `yaml:"-" json:"rank"`
}

// Rank returns a copy of entries sorted by points descending with ties
// broken by user ID ascending. Ranks are 1-based and distinct: tied
// entries still get consecutive ranks.
func Rank(entries []Entry) []Entry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := cmp.Compare(b.Points, a.Points); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Merge adds users to the reference set. A user whose ID already appears
// replaces that entry.
func Merge(reference []Entry, users ...Entry) []Entry {
	out := slices.Clone(reference)
	for _, u := range users {
		i := slices.IndexFunc(out, func(e Entry) bool { return e.UserID == u.UserID })
		if i >= 0 {
			out[i] = u
		} else {
			out = append(out, u)
		}
	}
	return out
}

// Aggregate builds one entry per user from their Results. Points are the
// total of correct answers, partial sessions included. The display name is
// taken from the user's most recent Result.
func Aggregate(results []store.Result, now time.Time) []Entry {
	type acc struct {
		entry  Entry
		latest time.Time
		days   []time.Time
	}
	byUser := make(map[string]*acc)
	var order []string
	for _, r := range results {
		a, ok := byUser[r.UserID]
		if !ok {
			a = &acc{entry: Entry{UserID: r.UserID}}
			byUser[r.UserID] = a
			order = append(order, r.UserID)
		}
		a.entry.Points += r.Score
		if !r.CompletedAt.Before(a.latest) {
			a.latest = r.CompletedAt
			if r.DisplayName != "" {
				a.entry.DisplayName = r.DisplayName
			}
		}
		a.days = append(a.days, r.CompletedAt)
	}

	out := make([]Entry, 0, len(order))
	for _, id := range order {
		a := byUser[id]
		a.entry.Streak = DayStreak(a.days, now)
		if a.entry.DisplayName == "" {
			a.entry.DisplayName = id
		}
		out = append(out, a.entry)
	}
	return out
}

// Board merges the users found in results into the reference set and
// ranks everyone.
func Board(reference []Entry, results []store.Result, now time.Time) []Entry {
	return Rank(Merge(reference, Aggregate(results, now)...))
}

// Find returns the entry for userID.
func Find(entries []Entry, userID string) (Entry, bool) {
	i := slices.IndexFunc(entries, func(e Entry) bool { return e.UserID == userID })
	if i < 0 {
		return Entry{}, false
	}
	return entries[i], true
}
