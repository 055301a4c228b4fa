package bank

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/xuri/excelize/v2"
)

// SheetLayout describes where question fields live in a spreadsheet.
// Column indexes are zero-based.
type SheetLayout struct {
	SheetName   string
	StartRow    int // 1-based, first data row
	Module      int
	Prompt      int
	Options     []int // option ids are assigned "a", "b", ... in column order
	Correct     int   // holds the option letter
	Explanation int
	Difficulty  int
	ID          int // -1 to always generate
	Version     string
}

// DefaultSheetLayout is the layout produced by the bank export template:
// module | prompt | A | B | C | D | correct | explanation | difficulty | id.
func DefaultSheetLayout() SheetLayout {
	return SheetLayout{
		SheetName:   "Questions",
		StartRow:    2,
		Module:      0,
		Prompt:      1,
		Options:     []int{2, 3, 4, 5},
		Correct:     6,
		Explanation: 7,
		Difficulty:  8,
		ID:          9,
	}
}

// LoadXLSX reads questions from an Excel workbook.
func LoadXLSX(path string, layout SheetLayout) (*File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if name == layout.SheetName {
			sheet = name
			break
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return parseRows(rows, layout)
}

func parseRows(rows [][]string, layout SheetLayout) (*File, error) {
	out := &File{Version: layout.Version}
	for i, row := range rows {
		if i < layout.StartRow-1 || blankRow(row) {
			continue
		}
		q, err := rowQuestion(row, layout)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out.Questions = append(out.Questions, q)
	}
	if err := out.normalize(); err != nil {
		return nil, err
	}
	return out, nil
}

func rowQuestion(row []string, layout SheetLayout) (Question, error) {
	q := Question{
		ModuleID:    catalog.ModuleID(cell(row, layout.Module)),
		Prompt:      cell(row, layout.Prompt),
		Explanation: cell(row, layout.Explanation),
	}
	if layout.ID >= 0 {
		q.ID = cell(row, layout.ID)
	}
	for i, col := range layout.Options {
		text := cell(row, col)
		if text == "" {
			continue
		}
		q.Options = append(q.Options, Option{ID: string(rune('a' + i)), Text: text})
	}
	q.CorrectOptionID = strings.ToLower(cell(row, layout.Correct))

	diff := cell(row, layout.Difficulty)
	if diff == "" {
		q.Difficulty = 1
	} else {
		n, err := strconv.Atoi(diff)
		if err != nil {
			return Question{}, fmt.Errorf("difficulty %q: %w", diff, err)
		}
		q.Difficulty = n
	}
	return q, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
