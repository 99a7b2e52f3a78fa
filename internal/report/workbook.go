package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/threagile/editor-e2e/internal/models"
)

const (
	runsSheet  = "Runs"
	stepsSheet = "Steps"
)

var (
	runsHeader  = []any{"ID", "Status", "Groups", "Driver", "Editor URL", "Passed", "Failed", "Started", "Finished", "Duration (s)", "Error"}
	stepsHeader = []any{"Run", "Group", "Step", "Kind", "Outcome", "Started", "Duration (s)", "Error", "Changes"}
)

// WriteWorkbook writes runs and their steps as an xlsx workbook to w.
func WriteWorkbook(w io.Writer, runs []models.Run, steps []models.Step) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", runsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(stepsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(runs))
	for _, r := range runs {
		finished := ""
		if r.FinishedAt != nil {
			finished = r.FinishedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, []any{
			r.ID,
			string(r.Status),
			strings.Join(r.Groups, ", "),
			r.Driver,
			r.EditorURL,
			r.Passed,
			r.Failed,
			r.StartedAt.UTC().Format(time.RFC3339),
			finished,
			r.Duration().Seconds(),
			r.Error,
		})
	}
	if err := writeSheet(f, runsSheet, header, runsHeader, rows); err != nil {
		return err
	}

	rows = rows[:0]
	for _, s := range steps {
		changes := make([]string, 0, len(s.Changes))
		for _, d := range s.Changes {
			changes = append(changes, d.String())
		}
		rows = append(rows, []any{
			s.RunID,
			s.Group,
			s.Name,
			s.Kind,
			string(s.Outcome),
			s.StartedAt.UTC().Format(time.RFC3339),
			s.Duration.Seconds(),
			s.Error,
			strings.Join(changes, "\n"),
		})
	}
	if err := writeSheet(f, stepsSheet, header, stepsHeader, rows); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, headerStyle int, header []any, rows [][]any) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}

	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}
