// Package advice derives study recommendations from a user's Result
// history. Everything here is a pure function of its input.
package advice

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/store"
)

// Status classifies overall performance.
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusImproving Status = "improving"
	StatusCritical  Status = "critical"

	// StatusNeutral is used when there is too little history to compare
	// modules: no results at all, or results for a single module.
	StatusNeutral Status = "neutral"
)

// DefaultMultiplier scales the mean of the strongest and weakest module
// accuracy onto a 0-300 composite scale.
const DefaultMultiplier = 3.0

// ModuleScore is one module's aggregate accuracy in percent. Value is
// rounded for display; comparisons use Score and Total.
type ModuleScore struct {
	Module   catalog.ModuleID `json:"id"`
	Name     string           `json:"name"`
	Value    float64          `json:"value"`
	Score    int              `json:"score"`
	Total    int              `json:"total"`
	Sessions int              `json:"sessions"`
}

func (m ModuleScore) percent() float64 {
	if m.Total <= 0 {
		return 0
	}
	return float64(m.Score) / float64(m.Total) * 100
}

// compareAccuracy orders a and b by Score/Total without rounding.
func compareAccuracy(a, b ModuleScore) int {
	return cmp.Compare(a.Score*b.Total, b.Score*a.Total)
}

// Advice is the derived recommendation. It is never stored.
type Advice struct {
	Strength     ModuleScore `json:"strengthModule"`
	Critical     ModuleScore `json:"criticalModule"`
	Status       Status      `json:"overallStatus"`
	MeanAccuracy float64     `json:"meanAccuracy"`

	// ProjectedScore is a heuristic composite, not a statistical
	// prediction of an exam result.
	ProjectedScore float64 `json:"projectedScore"`

	Advice     string           `json:"advice"`
	ActionStep string           `json:"actionStep"`
	NextModule catalog.ModuleID `json:"nextRecommendedModule"`

	// Modules lists every module with data, in catalog order.
	Modules []ModuleScore `json:"modules"`
}

// HasData reports whether any Result contributed.
func (a Advice) HasData() bool {
	return len(a.Modules) > 0
}

// Analyzer computes Advice with a configurable projection multiplier.
type Analyzer struct {
	Multiplier float64
}

// New returns an Analyzer. A non-positive multiplier uses DefaultMultiplier.
func New(multiplier float64) Analyzer {
	if multiplier <= 0 {
		multiplier = DefaultMultiplier
	}
	return Analyzer{Multiplier: multiplier}
}

// Analyze uses DefaultMultiplier.
func Analyze(results []store.Result) Advice {
	return New(DefaultMultiplier).Analyze(results)
}

// Analyze aggregates results per module and picks the strongest and
// weakest. Ties resolve to the module earlier in catalog order.
func (a Analyzer) Analyze(results []store.Result) Advice {
	modules := Aggregate(results)
	if len(modules) == 0 {
		first := catalog.Order()[0]
		return Advice{
			Status:     StatusNeutral,
			NextModule: first,
			Advice:     "No results yet. Complete a practice session to get a recommendation.",
			ActionStep: "Start a practice session in " + catalog.DisplayName(first) + ".",
		}
	}

	strength, critical := modules[0], modules[0]
	var sum float64
	for _, m := range modules {
		if compareAccuracy(m, strength) > 0 {
			strength = m
		}
		if compareAccuracy(m, critical) < 0 {
			critical = m
		}
		sum += m.percent()
	}
	mean := sum / float64(len(modules))

	adv := Advice{
		Strength:       strength,
		Critical:       critical,
		MeanAccuracy:   round1(mean),
		ProjectedScore: round1((strength.percent() + critical.percent()) / 2 * a.Multiplier),
		Modules:        modules,
	}
	if len(modules) == 1 {
		adv.Status = StatusNeutral
	} else {
		adv.Status = Band(mean)
	}

	adv.NextModule = critical.Module
	if strength.Module == critical.Module {
		if next, ok := firstUnattempted(modules); ok {
			adv.NextModule = next
		}
	}
	adv.Advice, adv.ActionStep = describe(adv)
	return adv
}

// Band maps a mean accuracy to a status. Each band includes its lower
// bound.
func Band(mean float64) Status {
	switch {
	case mean >= 80:
		return StatusExcellent
	case mean >= 60:
		return StatusGood
	case mean >= 40:
		return StatusImproving
	default:
		return StatusCritical
	}
}

// Aggregate sums scores and totals per module. Accuracy is the pooled
// ratio, not an average of per-session percentages. Modules outside the
// catalog sort after it by id.
func Aggregate(results []store.Result) []ModuleScore {
	byModule := make(map[catalog.ModuleID]*ModuleScore)
	for _, r := range results {
		if r.TotalQuestions <= 0 {
			continue
		}
		m, ok := byModule[r.ModuleID]
		if !ok {
			m = &ModuleScore{Module: r.ModuleID, Name: catalog.DisplayName(r.ModuleID)}
			byModule[r.ModuleID] = m
		}
		m.Score += r.Score
		m.Total += r.TotalQuestions
		m.Sessions++
	}

	out := make([]ModuleScore, 0, len(byModule))
	for _, m := range byModule {
		m.Value = round1(m.percent())
		out = append(out, *m)
	}
	slices.SortFunc(out, func(a, b ModuleScore) int {
		ai, bi := orderKey(a.Module), orderKey(b.Module)
		if ai != bi {
			return ai - bi
		}
		return strings.Compare(string(a.Module), string(b.Module))
	})
	return out
}

func orderKey(id catalog.ModuleID) int {
	if i := catalog.Index(id); i >= 0 {
		return i
	}
	return len(catalog.Order())
}

func firstUnattempted(modules []ModuleScore) (catalog.ModuleID, bool) {
	for _, id := range catalog.Order() {
		if !slices.ContainsFunc(modules, func(m ModuleScore) bool { return m.Module == id }) {
			return id, true
		}
	}
	return "", false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
