package form

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/arnavshah/shift-roster-ai/pkg/i18n"
	"github.com/arnavshah/shift-roster-ai/pkg/models"
	"github.com/google/uuid"
)

var (
	// ErrIncomplete is returned when a generation is triggered without
	// personnel, shifts or a full date range
	ErrIncomplete = errors.New("form is incomplete")

	// ErrInFlight is returned when a generation is already pending
	ErrInFlight = errors.New("generation already in flight")
)

// Status is the state of the output pane
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailure
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return "idle"
	}
}

// State is a copy of everything the page needs to render
type State struct {
	Input    models.FormInput
	Schedule models.Schedule
	Status   Status
	// ErrorKey is an i18n message key, empty when no banner is shown
	ErrorKey string
}

// Loading reports whether a request is pending
func (s State) Loading() bool {
	return s.Status == StatusLoading
}

// Store holds the editable form and the output pane of one browser session.
// All transitions are safe for concurrent use.
type Store struct {
	mu          sync.Mutex
	personnel   []models.Person
	shifts      []models.ShiftType
	constraints string
	dates       models.DateRange
	schedule    models.Schedule
	status      Status
	errorKey    string
	touched     time.Time
}

// NewStore creates a store pre-filled with in
func NewStore(in models.FormInput) *Store {
	s := &Store{
		personnel:   append([]models.Person(nil), in.Personnel...),
		shifts:      append([]models.ShiftType(nil), in.Shifts...),
		constraints: in.Constraints,
		dates:       in.Dates,
		touched:     time.Now(),
	}
	return s
}

// AddPersonnel appends a person named name. Blank names are ignored.
func (s *Store) AddPersonnel(name string) (models.Person, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Person{}, false
	}
	p := models.Person{ID: uuid.NewString(), Name: name}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.personnel = append(s.personnel, p)
	s.touch()
	return p, true
}

// RemovePersonnel deletes the person with the given id
func (s *Store) RemovePersonnel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for i, p := range s.personnel {
		if p.ID == id {
			s.personnel = append(s.personnel[:i:i], s.personnel[i+1:]...)
			return true
		}
	}
	return false
}

// AddShift appends a shift type named name. Blank names are ignored.
func (s *Store) AddShift(name string) (models.ShiftType, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ShiftType{}, false
	}
	sh := models.ShiftType{ID: uuid.NewString(), Name: name}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.shifts = append(s.shifts, sh)
	s.touch()
	return sh, true
}

// RemoveShift deletes the shift type with the given id
func (s *Store) RemoveShift(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	for i, sh := range s.shifts {
		if sh.ID == id {
			s.shifts = append(s.shifts[:i:i], s.shifts[i+1:]...)
			return true
		}
	}
	return false
}

// SetConstraints replaces the free-form constraint text verbatim
func (s *Store) SetConstraints(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.constraints = text
	s.touch()
}

// SetDateRange replaces both bounds. Start after End is accepted.
func (s *Store) SetDateRange(start, end string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dates = models.DateRange{Start: strings.TrimSpace(start), End: strings.TrimSpace(end)}
	s.touch()
}

// StartGeneration moves the pane to loading and returns the snapshot the
// request must use. Later edits never reach the returned input.
func (s *Store) StartGeneration() (models.FormInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	in := s.input()
	if !in.Complete() {
		s.errorKey = i18n.MsgValidationMissing
		return models.FormInput{}, ErrIncomplete
	}
	if s.status == StatusLoading {
		return models.FormInput{}, ErrInFlight
	}

	s.status = StatusLoading
	s.errorKey = ""
	s.schedule = nil
	return in, nil
}

// Succeed settles a pending generation with schedule
func (s *Store) Succeed(schedule models.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = schedule
	s.status = StatusSuccess
	s.errorKey = ""
}

// Fail settles a pending generation with the banner messageKey, or the
// generic failure banner when messageKey is empty. The schedule stays cleared.
func (s *Store) Fail(messageKey string) {
	if messageKey == "" {
		messageKey = i18n.MsgGenerationFailed
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schedule = nil
	s.status = StatusFailure
	s.errorKey = messageKey
}

// Snapshot returns a deep copy of the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Input:    s.input(),
		Schedule: cloneSchedule(s.schedule),
		Status:   s.status,
		ErrorKey: s.errorKey,
	}
}

// LastTouched reports when the store was last edited
func (s *Store) LastTouched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func (s *Store) input() models.FormInput {
	return models.FormInput{
		Personnel:   append([]models.Person(nil), s.personnel...),
		Shifts:      append([]models.ShiftType(nil), s.shifts...),
		Constraints: s.constraints,
		Dates:       s.dates,
	}
}

// keepAlive records a visit that edits nothing
func (s *Store) keepAlive() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

func (s *Store) touch() {
	s.touched = time.Now()
}

func cloneSchedule(in models.Schedule) models.Schedule {
	if in == nil {
		return nil
	}
	out := make(models.Schedule, len(in))
	for i, day := range in {
		shifts := make([]models.ScheduledShift, len(day.Shifts))
		for j, sh := range day.Shifts {
			shifts[j] = models.ScheduledShift{
				ShiftName: sh.ShiftName,
				Personnel: append([]string(nil), sh.Personnel...),
			}
		}
		out[i] = models.ScheduleDay{Date: day.Date, Shifts: shifts}
	}
	return out
}
