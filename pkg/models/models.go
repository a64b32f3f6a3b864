package models

// Person represents an individual eligible for shift assignment
type Person struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// ShiftType represents a named work period within a day
type ShiftType struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// DateRange is an inclusive range of ISO (YYYY-MM-DD) dates. An empty
// string means the bound has not been set.
type DateRange struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// FormInput is the snapshot of the editable form handed to the prompt builder
type FormInput struct {
	Personnel   []Person    `json:"personnel" yaml:"personnel"`
	Shifts      []ShiftType `json:"shifts" yaml:"shifts"`
	Constraints string      `json:"constraints" yaml:"constraints"`
	Dates       DateRange   `json:"dates" yaml:"dates"`
}

// PersonnelNames returns the display names in list order
func (in FormInput) PersonnelNames() []string {
	names := make([]string, 0, len(in.Personnel))
	for _, p := range in.Personnel {
		names = append(names, p.Name)
	}
	return names
}

// ShiftNames returns the shift display names in list order
func (in FormInput) ShiftNames() []string {
	names := make([]string, 0, len(in.Shifts))
	for _, s := range in.Shifts {
		names = append(names, s.Name)
	}
	return names
}

// Complete reports whether the input carries enough data to request a schedule
func (in FormInput) Complete() bool {
	return len(in.Personnel) > 0 && len(in.Shifts) > 0 && in.Dates.Start != "" && in.Dates.End != ""
}

// ScheduledShift is one shift of a day with the people assigned to it
type ScheduledShift struct {
	ShiftName string   `json:"shiftName" yaml:"shiftName"`
	Personnel []string `json:"personnel" yaml:"personnel"`
}

// ScheduleDay holds the shifts of a single date
type ScheduleDay struct {
	Date   string           `json:"date" yaml:"date"`
	Shifts []ScheduledShift `json:"shifts" yaml:"shifts"`
}

// Schedule is the ordered list of days returned by the generation service.
// A nil Schedule means no schedule has been generated.
type Schedule []ScheduleDay
