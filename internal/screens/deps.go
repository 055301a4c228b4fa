// Package screens holds what every TUI screen needs to reach the engine
// and the stored results.
package screens

import (
	"context"
	"time"

	"github.com/abhisek/prepdeck/internal/advice"
	"github.com/abhisek/prepdeck/internal/leaderboard"
	"github.com/abhisek/prepdeck/internal/logger"
	"github.com/abhisek/prepdeck/internal/sampler"
	"github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/store"
)

// Deps wires the screens to the engine and stores.
type Deps struct {
	Sampler   *sampler.Sampler
	Results   store.ResultRepo
	User      session.SessionContext
	Analyzer  advice.Analyzer
	Reference []leaderboard.Entry

	PerItemSeconds int
	Listener       session.Listener
	Clock          session.Clock
	Logger         *logger.Logger
}

// NewEngine builds an engine for the current user. The TUI drives the
// clock from its own tick, so no background ticker is started.
func (d Deps) NewEngine(req session.Request) (*session.Engine, error) {
	eng, err := session.New(session.Config{
		Sampler:        d.Sampler,
		Results:        d.Results,
		Clock:          d.Clock,
		PerItemSeconds: d.PerItemSeconds,
		Logger:         d.Logger,
	}, d.User, req)
	if err != nil {
		return nil, err
	}
	if d.Listener != nil {
		eng.AddListener(d.Listener)
	}
	return eng, nil
}

// MyResults returns the current user's results.
func (d Deps) MyResults(ctx context.Context) ([]store.Result, error) {
	if d.Results == nil {
		return nil, nil
	}
	return d.Results.ListByUser(ctx, d.User.UserID)
}

// Now reads the configured clock.
func (d Deps) Now() time.Time {
	if d.Clock == nil {
		return time.Now()
	}
	return d.Clock.Now()
}

// Stats summarizes the current user's history for the home screen and
// the header.
type Stats struct {
	Sessions int
	Accuracy float64
	Streak   int
}

// LoadStats reads the user's results and summarizes them.
func (d Deps) LoadStats(ctx context.Context) (Stats, error) {
	results, err := d.MyResults(ctx)
	if err != nil {
		return Stats{}, err
	}
	return SummarizeStats(results, d.Now()), nil
}

// SummarizeStats counts distinct sessions, pools accuracy over every
// answered question and computes the day streak.
func SummarizeStats(results []store.Result, now time.Time) Stats {
	sessions := make(map[string]bool)
	var score, total int
	days := make([]time.Time, 0, len(results))
	for _, r := range results {
		key := r.SessionID
		if key == "" {
			key = r.ID
		}
		sessions[key] = true
		score += r.Score
		total += r.TotalQuestions
		days = append(days, r.CompletedAt)
	}
	st := Stats{Sessions: len(sessions), Streak: leaderboard.DayStreak(days, now)}
	if total > 0 {
		st.Accuracy = float64(score) / float64(total) * 100
	}
	return st
}
