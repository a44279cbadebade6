// Package excel builds downloadable workbook exports of a case.
package excel

import (
	"fmt"
	"io"
	"strings"

	"tribunal/domain/trial"
	"tribunal/domain/verdict"

	"github.com/xuri/excelize/v2"
)

// Export holds everything the workbook covers.
type Export struct {
	Case      *trial.Case
	Documents []trial.Document
	Arguments []trial.Argument
	Verdicts  []verdict.Verdict
}

// WriteWorkbook renders the case as a four-sheet workbook and writes the
// xlsx bytes to w.
func WriteWorkbook(w io.Writer, ex Export) error {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, ex); err != nil {
		return err
	}
	if err := writeDocumentSheet(f, ex.Documents); err != nil {
		return err
	}
	if err := writeArgumentSheet(f, ex.Arguments); err != nil {
		return err
	}
	if err := writeVerdictSheet(f, ex.Verdicts); err != nil {
		return err
	}

	if idx, err := f.GetSheetIndex("Summary"); err == nil && idx != -1 {
		f.SetActiveSheet(idx)
	}
	return f.Write(w)
}

func writeSummarySheet(f *excelize.File, ex Export) error {
	const sheet = "Summary"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Case Number", ex.Case.CaseNumber},
		{"Title", ex.Case.Title},
		{"Type", ex.Case.CaseType},
		{"Jurisdiction", ex.Case.Jurisdiction},
		{"Status", string(ex.Case.Status)},
		{"Current Round", ex.Case.CurrentRound},
		{"Max Rounds", ex.Case.MaxRounds},
		{"Documents", len(ex.Documents)},
		{"Arguments", len(ex.Arguments)},
		{"Verdicts", len(ex.Verdicts)},
		{"Created At", ex.Case.CreatedAt.Format("2006-01-02 15:04")},
	}
	if ex.Case.FinalizedAt != nil {
		rows = append(rows, []interface{}{"Finalized At", ex.Case.FinalizedAt.Format("2006-01-02 15:04")})
	}
	return writeRows(f, sheet, rows)
}

func writeDocumentSheet(f *excelize.File, docs []trial.Document) error {
	const sheet = "Documents"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Title", "Side", "File Type", "Status", "Words", "Pages", "Uploaded", "Error"},
	}
	for _, d := range docs {
		words, pages := "", ""
		if d.WordCount != nil {
			words = fmt.Sprint(*d.WordCount)
		}
		if d.PageCount != nil {
			pages = fmt.Sprint(*d.PageCount)
		}
		errMsg := ""
		if d.ErrorMessage != nil {
			errMsg = *d.ErrorMessage
		}
		rows = append(rows, []interface{}{
			d.Title, string(d.Side), d.FileType, string(d.Status),
			words, pages, d.UploadedAt.Format("2006-01-02 15:04"), errMsg,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeArgumentSheet(f *excelize.File, args []trial.Argument) error {
	const sheet = "Arguments"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Round", "Side", "Argument", "Submitted"},
	}
	for _, a := range args {
		rows = append(rows, []interface{}{
			a.Round, string(a.Side), a.ArgumentText, a.SubmittedAt.Format("2006-01-02 15:04"),
		})
	}
	return writeRows(f, sheet, rows)
}

func writeVerdictSheet(f *excelize.File, verdicts []verdict.Verdict) error {
	const sheet = "Verdicts"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	rows := [][]interface{}{
		{"Round", "Winner", "Confidence", "Summary", "Decision", "Key Evidence", "Model"},
	}
	for _, v := range verdicts {
		rows = append(rows, []interface{}{
			v.Round,
			v.Payload.Winner,
			v.Payload.ConfidenceScore,
			v.Payload.Summary,
			v.Payload.FinalDecision,
			strings.Join(v.Payload.KeyEvidenceCited, "; "),
			v.ModelUsed,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}
