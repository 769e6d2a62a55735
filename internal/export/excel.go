package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ricki2828/cv-parsing/internal/models"
	"github.com/ricki2828/cv-parsing/internal/stats"
)

// WriteWorkbook writes a candidate-list workbook to w: a summary sheet
// with the dashboard aggregates and a candidates sheet with one row per
// candidate.
func WriteWorkbook(candidates []models.Candidate, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "Summary"
	candidatesSheet := "Candidates"

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(candidatesSheet); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := createSummarySheet(f, summarySheet, candidates); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := createCandidatesSheet(f, candidatesSheet, candidates); err != nil {
		return fmt.Errorf("failed to create candidates sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

// createSummarySheet writes the headline aggregates.
func createSummarySheet(f *excelize.File, sheetName string, candidates []models.Candidate) error {
	f.SetColWidth(sheetName, "A", "A", 28)
	f.SetColWidth(sheetName, "B", "B", 40)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	labelStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return err
	}

	s := stats.Compute(candidates)
	row := 1

	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Candidate Report")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row += 2

	summaryRows := []struct {
		label string
		value any
	}{
		{"Generated:", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Candidates:", s.TotalCandidates},
		{"Average Score:", s.AverageScore},
		{"New:", s.NewCandidates},
		{"Reviewed:", s.Reviewed},
		{"Shortlisted:", s.Shortlisted},
	}
	for _, item := range summaryRows {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), item.label)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), labelStyle)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), item.value)
		row++
	}

	row++
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "Pipeline")
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row), headerStyle)
	f.MergeCell(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("B%d", row))
	row++

	for _, status := range models.AllStatuses {
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), string(status))
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.StatusCounts[status])
		row++
	}

	return nil
}

// createCandidatesSheet writes one row per candidate.
func createCandidatesSheet(f *excelize.File, sheetName string, candidates []models.Candidate) error {
	headers := []string{
		"Name", "Email", "Phone", "Score", "Status",
		"Sales Experience", "International Experience", "Skills", "Uploaded",
	}
	widths := []float64{24, 30, 18, 8, 18, 34, 30, 40, 20}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		f.SetColWidth(sheetName, col, col, width)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}

	highScoreStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "107C10"},
	})
	if err != nil {
		return err
	}

	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, c := range candidates {
		row := i + 2
		values := []any{
			c.Name,
			c.Email,
			c.Phone,
			c.Score,
			string(c.Status),
			c.SalesExperience,
			c.InternationalExperience,
			strings.Join(c.Skills, ", "),
			c.UploadDate.Format("2006-01-02 15:04"),
		}
		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return err
			}
			f.SetCellValue(sheetName, cell, value)
		}

		if c.Score >= 90 {
			cell, err := excelize.CoordinatesToCellName(4, row)
			if err != nil {
				return err
			}
			f.SetCellStyle(sheetName, cell, cell, highScoreStyle)
		}
	}

	return nil
}
