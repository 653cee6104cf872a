package vocab

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/learnsimply/internal/types"
)

const sheetName = "Vocabulary"

var columns = []string{"Word", "Pronunciation", "Meaning", "Examples", "Added"}

// ExportXLSX writes words as a spreadsheet, one row per word.
func ExportXLSX(words []types.VocabularyWord, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return err
		}
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "E1", bold); err != nil {
		return err
	}

	for r, word := range words {
		row := []any{word.Word, word.Pronunciation, word.Meaning, strings.Join(word.Examples, "\n"), word.DateAdded}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", r+2, err)
		}
	}
	return f.Write(w)
}
