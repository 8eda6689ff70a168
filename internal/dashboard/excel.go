package dashboard

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"interview-assistant/internal/interview"
)

const (
	summarySheet     = "Interviews"
	transcriptsSheet = "Transcripts"
)

// WriteExcel writes the archive as an xlsx workbook with one summary row
// per interview and a sheet of every transcript entry.
func WriteExcel(w io.Writer, list []interview.CompletedSession) error {
	f, err := buildWorkbook(list)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportToExcel saves the workbook at path, adding .xlsx when missing, and
// returns the path written.
func ExportToExcel(list []interview.CompletedSession, path string) (string, error) {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}
	path = filepath.Clean(path)

	f, err := buildWorkbook(list)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return path, nil
}

func buildWorkbook(list []interview.CompletedSession) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(transcriptsSheet); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeSummarySheet(f, list, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeTranscriptsSheet(f, list, headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create transcripts sheet: %w", err)
	}
	return f, nil
}

func writeSummarySheet(f *excelize.File, list []interview.CompletedSession, headerStyle int) error {
	headers := []string{"Rank", "Name", "Email", "Phone", "Score", "Completed", "Summary", "ID"}
	if err := writeHeader(f, summarySheet, headers, headerStyle); err != nil {
		return err
	}
	f.SetColWidth(summarySheet, "B", "C", 28)
	f.SetColWidth(summarySheet, "F", "F", 22)
	f.SetColWidth(summarySheet, "G", "G", 60)
	f.SetColWidth(summarySheet, "H", "H", 38)

	for i, cs := range list {
		row := []any{
			i + 1,
			cs.Candidate.Name,
			cs.Candidate.Email,
			cs.Candidate.Phone,
			fmt.Sprintf("%d/%d", cs.Score, interview.MaxScore),
			cs.CompletedAt.Format("2006-01-02 15:04:05"),
			cs.Summary,
			cs.ID,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeTranscriptsSheet(f *excelize.File, list []interview.CompletedSession, headerStyle int) error {
	headers := []string{"Interview ID", "Name", "#", "Sender", "Text"}
	if err := writeHeader(f, transcriptsSheet, headers, headerStyle); err != nil {
		return err
	}
	f.SetColWidth(transcriptsSheet, "A", "A", 38)
	f.SetColWidth(transcriptsSheet, "B", "B", 24)
	f.SetColWidth(transcriptsSheet, "E", "E", 90)

	r := 2
	for _, cs := range list {
		for i, m := range cs.Messages {
			row := []any{cs.ID, cs.Candidate.Name, i + 1, string(m.Sender), m.Text}
			cell, err := excelize.CoordinatesToCellName(1, r)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(transcriptsSheet, cell, &row); err != nil {
				return err
			}
			r++
		}
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", end, style)
}
