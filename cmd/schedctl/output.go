package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arnavshah/shift-roster-ai/pkg/i18n"
	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"github.com/arnavshah/shift-roster-ai/pkg/render"
	"github.com/arnavshah/shift-roster-ai/pkg/review"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	emptyStyle  = lipgloss.NewStyle().Padding(0, 1).Faint(true).Italic(true)
)

func writeSchedule(w io.Writer, schedule models.Schedule, format string, lang language.Tag) error {
	view := render.Project(schedule, false)

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(schedule)
	case "csv":
		return render.WriteCSV(w, view)
	case "table", "":
		_, err := fmt.Fprintln(w, tableString(view, lang))
		return err
	default:
		return fmt.Errorf("unknown format %q (table, csv, json)", format)
	}
}

// tableString lays the view out the way the web page does
func tableString(view render.View, lang language.Tag) string {
	if view.Kind != render.KindTable {
		return i18n.T(lang, i18n.MsgEmptyTitle)
	}

	thai := i18n.IsThai(lang)
	noStaff := i18n.T(lang, i18n.MsgNoStaff)

	rows := make([][]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		line := make([]string, 0, len(row.Cells)+1)
		line = append(line, render.DateLabel(row.Date, thai))
		for _, cell := range row.Cells {
			if cell.Empty {
				line = append(line, noStaff)
				continue
			}
			line = append(line, strings.Join(cell.Personnel, "\n"))
		}
		rows = append(rows, line)
	}

	headers := append([]string{i18n.T(lang, i18n.MsgDate)}, view.Columns...)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col > 0 && view.Rows[row].Cells[col-1].Empty {
				return emptyStyle
			}
			return cellStyle
		})
	return t.String()
}

func printReview(w io.Writer, report review.Report) {
	fmt.Fprintf(w, "\nFairness score: %.0f%%\n", report.FairnessScore)
	if len(report.Findings) == 0 {
		fmt.Fprintln(w, "No findings")
		return
	}
	for _, f := range report.Findings {
		who := ""
		if f.Person != "" {
			who = f.Person + ": "
		}
		fmt.Fprintf(w, "- [%s] %s %s%s\n", f.Kind, f.Date, who, f.Message)
	}
}
