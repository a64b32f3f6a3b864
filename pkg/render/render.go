package render

import (
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/models"
)

// Kind selects which of the three output views is shown
type Kind string

const (
	KindLoading Kind = "loading"
	KindEmpty   Kind = "empty"
	KindTable   Kind = "table"
)

// Cell lists the personnel of one shift on one date. Empty is set when the
// shift is missing from that day or has nobody assigned.
type Cell struct {
	Personnel []string `json:"personnel"`
	Empty     bool     `json:"empty"`
}

// Row is one schedule day
type Row struct {
	Date  string `json:"date"`
	Cells []Cell `json:"cells"`
}

// View is the projection of a schedule onto a date x shift grid
type View struct {
	Kind    Kind     `json:"kind"`
	Columns []string `json:"columns,omitempty"`
	Rows    []Row    `json:"rows,omitempty"`
}

// Project maps a schedule to the view to display. Loading wins over
// everything; a nil or empty schedule gives the empty view.
//
// Columns come from the shifts of the first day only. Shift names that
// appear only on later days are not displayed.
func Project(schedule models.Schedule, loading bool) View {
	if loading {
		return View{Kind: KindLoading}
	}
	if len(schedule) == 0 {
		return View{Kind: KindEmpty}
	}

	columns := make([]string, 0, len(schedule[0].Shifts))
	for _, sh := range schedule[0].Shifts {
		columns = append(columns, sh.ShiftName)
	}

	rows := make([]Row, 0, len(schedule))
	for _, day := range schedule {
		cells := make([]Cell, 0, len(columns))
		for _, name := range columns {
			cells = append(cells, cellFor(day, name))
		}
		rows = append(rows, Row{Date: day.Date, Cells: cells})
	}

	return View{Kind: KindTable, Columns: columns, Rows: rows}
}

func cellFor(day models.ScheduleDay, shiftName string) Cell {
	for _, sh := range day.Shifts {
		if sh.ShiftName != shiftName {
			continue
		}
		if len(sh.Personnel) == 0 {
			return Cell{Empty: true}
		}
		return Cell{Personnel: append([]string(nil), sh.Personnel...)}
	}
	return Cell{Empty: true}
}

var thaiWeekdays = [...]string{"อา.", "จ.", "อ.", "พ.", "พฤ.", "ศ.", "ส."}

var thaiMonths = [...]string{"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค."}

// DateLabel formats an ISO date for a row header, e.g. "Mon, Jan 1" or
// "จ. 1 ม.ค.". Dates that do not parse are returned unchanged.
func DateLabel(date string, thai bool) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	if thai {
		return thaiWeekdays[t.Weekday()] + " " + t.Format("2") + " " + thaiMonths[t.Month()-1]
	}
	return t.Format("Mon, Jan 2")
}
