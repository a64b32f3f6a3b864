package render

import (
	"encoding/csv"
	"io"
	"strings"
)

// PersonnelSeparator joins the personnel of one cell in exports
const PersonnelSeparator = "; "

// WriteCSV writes the table view as CSV: a "date" column followed by one
// column per shift. Non-table views produce only the header.
func WriteCSV(w io.Writer, v View) error {
	writer := csv.NewWriter(w)

	header := append([]string{"date"}, v.Columns...)
	if err := writer.Write(header); err != nil {
		return err
	}

	if v.Kind == KindTable {
		for _, row := range v.Rows {
			record := make([]string, 0, len(row.Cells)+1)
			record = append(record, row.Date)
			for _, cell := range row.Cells {
				record = append(record, strings.Join(cell.Personnel, PersonnelSeparator))
			}
			if err := writer.Write(record); err != nil {
				return err
			}
		}
	}

	writer.Flush()
	return writer.Error()
}
