package review

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/models"
)

// FindingKind classifies an advisory finding
type FindingKind string

const (
	KindNightThenMorning FindingKind = "night_then_morning"
	KindUnknownPerson    FindingKind = "unknown_person"
	KindUnknownShift     FindingKind = "unknown_shift"
	KindOutOfRange       FindingKind = "date_out_of_range"
	KindDuplicateDate    FindingKind = "duplicate_date"
)

// Finding describes one rule the returned schedule appears to break
type Finding struct {
	Kind      FindingKind `json:"kind"`
	Date      string      `json:"date"`
	ShiftName string      `json:"shift_name,omitempty"`
	Person    string      `json:"person,omitempty"`
	Message   string      `json:"message"`
}

// Report is the advisory result. It never changes the schedule it describes.
type Report struct {
	Findings      []Finding      `json:"findings"`
	Assignments   map[string]int `json:"assignments"`
	FairnessScore float64        `json:"fairness_score"`
}

// Options tells the reviewer which shift names count as night and morning
// shifts. Matching is a case-insensitive substring test.
type Options struct {
	NightKeywords   []string
	MorningKeywords []string
}

// DefaultOptions recognises English and Thai shift names
func DefaultOptions() Options {
	return Options{
		NightKeywords:   []string{"night", "ดึก"},
		MorningKeywords: []string{"morning", "เช้า"},
	}
}

const isoDate = "2006-01-02"

// Reviewer checks a generated schedule against the form it was requested with
type Reviewer struct {
	opts Options
}

// NewReviewer creates a reviewer
func NewReviewer(opts Options) *Reviewer {
	return &Reviewer{opts: opts}
}

// Check runs every advisory check
func (r *Reviewer) Check(schedule models.Schedule, in models.FormInput) Report {
	report := Report{
		Findings:    []Finding{},
		Assignments: make(map[string]int, len(in.Personnel)),
	}

	known := make(map[string]bool, len(in.Personnel))
	for _, p := range in.Personnel {
		known[p.Name] = true
		report.Assignments[p.Name] = 0
	}
	shiftNames := make(map[string]bool, len(in.Shifts))
	for _, s := range in.Shifts {
		shiftNames[s.Name] = true
	}

	seen := make(map[string]bool, len(schedule))
	for _, day := range schedule {
		if seen[day.Date] {
			report.add(KindDuplicateDate, day.Date, "", "", "date appears more than once")
		}
		seen[day.Date] = true

		if !inRange(day.Date, in.Dates) {
			report.add(KindOutOfRange, day.Date, "", "",
				fmt.Sprintf("date is outside %s..%s", in.Dates.Start, in.Dates.End))
		}

		for _, sh := range day.Shifts {
			if !shiftNames[sh.ShiftName] {
				report.add(KindUnknownShift, day.Date, sh.ShiftName, "", "shift is not in the shift list")
			}
			for _, name := range sh.Personnel {
				if !known[name] {
					report.add(KindUnknownPerson, day.Date, sh.ShiftName, name, "person is not in the personnel list")
					continue
				}
				report.Assignments[name]++
			}
		}
	}

	report.Findings = append(report.Findings, r.nightThenMorning(schedule)...)
	report.FairnessScore = FairnessScore(report.Assignments)
	return report
}

// nightThenMorning flags anyone on a morning shift the day after a night shift
func (r *Reviewer) nightThenMorning(schedule models.Schedule) []Finding {
	byDate := make(map[string]models.ScheduleDay, len(schedule))
	for _, day := range schedule {
		if _, ok := byDate[day.Date]; !ok {
			byDate[day.Date] = day
		}
	}

	var findings []Finding
	for _, day := range schedule {
		t, err := time.Parse(isoDate, day.Date)
		if err != nil {
			continue
		}
		next, ok := byDate[t.AddDate(0, 0, 1).Format(isoDate)]
		if !ok {
			continue
		}

		nightCrew := r.crew(day, r.opts.NightKeywords)
		for _, sh := range next.Shifts {
			if !matches(sh.ShiftName, r.opts.MorningKeywords) {
				continue
			}
			for _, name := range sh.Personnel {
				if nightCrew[name] {
					findings = append(findings, Finding{
						Kind:      KindNightThenMorning,
						Date:      next.Date,
						ShiftName: sh.ShiftName,
						Person:    name,
						Message:   fmt.Sprintf("works %s right after the night shift of %s", sh.ShiftName, day.Date),
					})
				}
			}
		}
	}
	return findings
}

func (r *Reviewer) crew(day models.ScheduleDay, keywords []string) map[string]bool {
	out := make(map[string]bool)
	for _, sh := range day.Shifts {
		if matches(sh.ShiftName, keywords) {
			for _, name := range sh.Personnel {
				out[name] = true
			}
		}
	}
	return out
}

func (rep *Report) add(kind FindingKind, date, shift, person, msg string) {
	rep.Findings = append(rep.Findings, Finding{
		Kind:      kind,
		Date:      date,
		ShiftName: shift,
		Person:    person,
		Message:   msg,
	})
}

func matches(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// inRange reports whether date lies in the inclusive range. Unparseable
// dates or bounds are not flagged.
func inRange(date string, r models.DateRange) bool {
	t, err := time.Parse(isoDate, date)
	if err != nil {
		return true
	}
	start, err1 := time.Parse(isoDate, r.Start)
	end, err2 := time.Parse(isoDate, r.End)
	if err1 != nil || err2 != nil {
		return true
	}
	return !t.Before(start) && !t.After(end)
}

// FairnessScore returns a percentage (0-100) representing how evenly shifts
// are distributed. 100% is perfectly fair (Standard Deviation = 0).
func FairnessScore(assignments map[string]int) float64 {
	if len(assignments) == 0 {
		return 100.0
	}

	var sum float64
	for _, n := range assignments {
		sum += float64(n)
	}
	if sum == 0 {
		return 100.0
	}

	mean := sum / float64(len(assignments))

	var varianceSum float64
	for _, n := range assignments {
		diff := float64(n) - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(assignments)))

	// 100% means SD is 0. 0% means SD is >= mean.
	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return score
}
