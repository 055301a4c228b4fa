package session

import (
	"time"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/store"
)

// ModuleResult is one module's line on the summary screen.
type ModuleResult struct {
	Module    catalog.ModuleID
	Name      string
	Score     int
	Total     int
	Accuracy  float64
	IsPartial bool
}

// Summary holds the data displayed when a session ends.
type Summary struct {
	SessionID      string
	Phase          Phase
	Duration       time.Duration
	TotalQuestions int
	TotalCorrect   int
	Accuracy       float64
	Modules        []ModuleResult
	Expired        bool
	Upsell         bool
	Err            error
}

// BuildSummary folds a snapshot's Results into per-module and overall
// totals. The duration is measured from the current module's start.
func BuildSummary(s Snapshot, now time.Time) Summary {
	sum := Summary{
		SessionID: s.SessionID,
		Phase:     s.Phase,
		Expired:   s.Expired,
		Upsell:    s.Upsell,
		Err:       s.Err,
	}
	if !s.StartedAt.IsZero() {
		sum.Duration = now.Sub(s.StartedAt)
	}
	for _, r := range s.Results {
		sum.Modules = append(sum.Modules, moduleResult(r))
		sum.TotalQuestions += r.TotalQuestions
		sum.TotalCorrect += r.Score
	}
	if sum.TotalQuestions > 0 {
		sum.Accuracy = float64(sum.TotalCorrect) / float64(sum.TotalQuestions) * 100
	}
	return sum
}

func moduleResult(r store.Result) ModuleResult {
	return ModuleResult{
		Module:    r.ModuleID,
		Name:      catalog.DisplayName(r.ModuleID),
		Score:     r.Score,
		Total:     r.TotalQuestions,
		Accuracy:  r.Accuracy(),
		IsPartial: r.IsPartial,
	}
}
