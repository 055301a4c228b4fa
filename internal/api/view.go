package api

import (
	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/store"
)

// questionView hides the correct option while the question is open.
type questionView struct {
	ID      string        `json:"id"`
	Prompt  string        `json:"prompt"`
	Options []bank.Option `json:"options"`
}

type feedbackView struct {
	QuestionID      string `json:"questionId"`
	SelectedID      string `json:"selectedOptionId"`
	Correct         bool   `json:"correct"`
	CorrectOptionID string `json:"correctOptionId"`
	Explanation     string `json:"explanation"`
}

type snapshotView struct {
	SessionID      string           `json:"sessionId"`
	Mode           catalog.Mode     `json:"mode"`
	Phase          string           `json:"phase"`
	Status         string           `json:"status"`
	Module         catalog.ModuleID `json:"moduleId"`
	ModuleNumber   int              `json:"moduleNumber"`
	ModuleCount    int              `json:"moduleCount"`
	Items          int              `json:"items"`
	CurrentIndex   int              `json:"currentIndex"`
	Current        *questionView    `json:"current,omitempty"`
	Answered       int              `json:"answered"`
	Score          int              `json:"score"`
	Feedback       *feedbackView    `json:"feedback,omitempty"`
	TimeLimitSecs  float64          `json:"timeLimitSeconds"`
	RemainingSecs  float64          `json:"remainingSeconds"`
	IntroTimeLimit float64          `json:"introTimeLimitSeconds,omitempty"`
	Expired        bool             `json:"expired"`
	Results        []store.Result   `json:"results"`
	Upsell         bool             `json:"upsell"`
	Error          string           `json:"error,omitempty"`
}

func newFeedbackView(f session.Feedback) *feedbackView {
	return &feedbackView{
		QuestionID:      f.QuestionID,
		SelectedID:      f.SelectedID,
		Correct:         f.Correct,
		CorrectOptionID: f.CorrectOptionID,
		Explanation:     f.Explanation,
	}
}

func newSnapshotView(s session.Snapshot) snapshotView {
	v := snapshotView{
		SessionID:      s.SessionID,
		Mode:           s.Mode,
		Phase:          s.Phase.String(),
		Status:         s.Phase.Status(),
		Module:         s.Module,
		ModuleNumber:   s.ModuleNumber,
		ModuleCount:    s.ModuleCount,
		Items:          s.Items,
		CurrentIndex:   s.CurrentIndex,
		Answered:       len(s.Answers),
		Score:          s.Score,
		TimeLimitSecs:  s.TimeLimit.Seconds(),
		RemainingSecs:  s.Remaining.Seconds(),
		IntroTimeLimit: s.IntroTimeLimit.Seconds(),
		Expired:        s.Expired,
		Results:        s.Results,
		Upsell:         s.Upsell,
	}
	if v.Results == nil {
		v.Results = []store.Result{}
	}
	if s.Current != nil {
		v.Current = &questionView{ID: s.Current.ID, Prompt: s.Current.Prompt, Options: s.Current.Options}
	}
	if s.Feedback != nil {
		v.Feedback = newFeedbackView(*s.Feedback)
	}
	if s.Err != nil {
		v.Error = s.Err.Error()
	}
	return v
}
