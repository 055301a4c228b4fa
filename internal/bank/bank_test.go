package bank

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleQuestion(id string, module catalog.ModuleID) Question {
	return Question{
		ID:       id,
		ModuleID: module,
		Prompt:   "What is 2 + 2?",
		Options: []Option{
			{ID: "a", Text: "3"},
			{ID: "b", Text: "4"},
		},
		CorrectOptionID: "b",
		Explanation:     "Two plus two is four.",
		Difficulty:      1,
	}
}

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(q *Question)
		wantErr string
	}{
		{"valid", func(q *Question) {}, ""},
		{"unknown module", func(q *Question) { q.ModuleID = "astrology" }, "unknown module"},
		{"one option", func(q *Question) { q.Options = q.Options[:1]; q.CorrectOptionID = "a" }, "at least 2 options"},
		{"duplicate option", func(q *Question) { q.Options[1].ID = "a" }, "duplicate option"},
		{"missing correct", func(q *Question) { q.CorrectOptionID = "z" }, "not among the options"},
		{"difficulty", func(q *Question) { q.Difficulty = 9 }, "difficulty"},
		{"empty prompt", func(q *Question) { q.Prompt = " " }, "empty prompt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := sampleQuestion("q1", catalog.ModuleQuantitative)
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMemoryBank_QueryAndGet(t *testing.T) {
	b, err := NewMemoryBank(
		sampleQuestion("q1", catalog.ModuleQuantitative),
		sampleQuestion("q2", catalog.ModuleReading),
		sampleQuestion("q3", catalog.ModuleQuantitative),
	)
	require.NoError(t, err)
	ctx := context.Background()

	qs, err := b.QueryByModule(ctx, catalog.ModuleQuantitative)
	require.NoError(t, err)
	require.Len(t, qs, 2)
	assert.Equal(t, "q1", qs[0].ID)
	assert.Equal(t, "q3", qs[1].ID)

	q, err := b.GetByID(ctx, "q2")
	require.NoError(t, err)
	assert.Equal(t, catalog.ModuleReading, q.ModuleID)

	_, err = b.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, ErrQuestionNotFound))
}

func TestMemoryBank_RejectsDuplicateID(t *testing.T) {
	_, err := NewMemoryBank(
		sampleQuestion("q1", catalog.ModuleQuantitative),
		sampleQuestion("q1", catalog.ModuleReading),
	)
	require.Error(t, err)
}

func TestMemoryBank_Assignment(t *testing.T) {
	b, err := NewMemoryBank()
	require.NoError(t, err)
	ctx := context.Background()

	_, err = b.GetAssignment(ctx, "hw-1")
	assert.True(t, errors.Is(err, ErrAssignmentNotFound))

	b.PutAssignment(Assignment{ID: "hw-1", Questions: []Question{sampleQuestion("q9", catalog.ModuleCitizenship)}})
	a, err := b.GetAssignment(ctx, "hw-1")
	require.NoError(t, err)
	assert.Len(t, a.Questions, 1)
}

const bankYAML = `
version: 1.2.0
questions:
  - id: cit-1
    module: citizenship
    prompt: Which branch interprets the constitution?
    options:
      - {id: a, text: Legislative}
      - {id: b, text: Judicial}
      - {id: c, text: Executive}
    correct: b
    explanation: Courts interpret the constitution.
    difficulty: 2
  - module: citizenship
    prompt: How many chambers does a bicameral legislature have?
    options:
      - {id: a, text: One}
      - {id: b, text: Two}
    correct: b
    difficulty: 1
`

func TestDecodeYAML(t *testing.T) {
	f, err := DecodeYAML(strings.NewReader(bankYAML))
	require.NoError(t, err)
	assert.Equal(t, "v1.2.0", f.Version)
	require.Len(t, f.Questions, 2)
	assert.Equal(t, "cit-1", f.Questions[0].ID)
	assert.NotEmpty(t, f.Questions[1].ID, "missing id should be generated")
	assert.Len(t, f.Questions[0].Options, 3)
}

func TestDecodeYAML_InvalidQuestion(t *testing.T) {
	doc := `
questions:
  - id: x
    module: citizenship
    prompt: Broken
    options:
      - {id: a, text: Only}
    correct: a
    difficulty: 1
`
	_, err := DecodeYAML(strings.NewReader(doc))
	require.Error(t, err)
}

func TestDecodeYAML_BadVersion(t *testing.T) {
	_, err := DecodeYAML(strings.NewReader("version: banana\nquestions: []\n"))
	require.Error(t, err)
}

func TestCheckUpgrade(t *testing.T) {
	assert.NoError(t, CheckUpgrade("", "v0.1.0"))
	assert.NoError(t, CheckUpgrade("v1.0.0", "v1.0.0"))
	assert.NoError(t, CheckUpgrade("v1.0.0", "v1.1.0"))
	assert.Error(t, CheckUpgrade("v1.2.0", "v1.1.9"))
}

func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xlsx")
	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"module", "prompt", "A", "B", "C", "D", "correct", "explanation", "difficulty", "id"},
		{"critical-reading", "The author's tone is best described as", "hostile", "neutral", "celebratory", "", "B", "Measured language.", "3", "cr-1"},
		{"", "", "", "", "", "", "", "", "", ""},
		{"critical-reading", "Main idea?", "x", "y", "", "", "a", "", "", ""},
	}
	for i, r := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, wb.SetSheetRow(sheet, cellRef, &r))
	}
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	layout := DefaultSheetLayout()
	layout.Version = "v2.0.0"
	f, err := LoadXLSX(path, layout)
	require.NoError(t, err)
	require.Len(t, f.Questions, 2)

	q := f.Questions[0]
	assert.Equal(t, "cr-1", q.ID)
	assert.Equal(t, catalog.ModuleReading, q.ModuleID)
	assert.Len(t, q.Options, 3)
	assert.Equal(t, "b", q.CorrectOptionID)
	assert.Equal(t, 3, q.Difficulty)

	assert.Equal(t, 1, f.Questions[1].Difficulty)
	assert.NotEmpty(t, f.Questions[1].ID)
	assert.Equal(t, "v2.0.0", f.Version)
}
