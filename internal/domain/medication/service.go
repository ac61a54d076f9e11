package medication

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/errs"
	"github.com/memorycare/memorycare/internal/platform/store"
)

// DateLayout is the format of the ?date= filter on medication logs.
const DateLayout = "2006-01-02"

type Service struct {
	meds MedicationRepository
	logs LogRepository
	now  func() time.Time
	loc  *time.Location
}

func NewService(meds MedicationRepository, logs LogRepository) *Service {
	return &Service{meds: meds, logs: logs, now: store.Now, loc: time.Local}
}

// -- Medications --

func validateMedication(m *Medication) error {
	if strings.TrimSpace(m.Name) == "" {
		return errs.Invalid("name is required")
	}
	if strings.TrimSpace(m.Dosage) == "" {
		return errs.Invalid("dosage is required")
	}
	if strings.TrimSpace(m.Frequency) == "" {
		return errs.Invalid("frequency is required")
	}
	for _, t := range m.Times {
		if _, err := time.Parse("15:04", t); err != nil {
			return errs.Invalid("time %q must be HH:MM", t)
		}
	}
	return nil
}

func (s *Service) CreateMedication(ctx context.Context, userID uuid.UUID, in MedicationInput) (*Medication, error) {
	m := &Medication{
		UserID:    userID,
		Name:      in.Name,
		Dosage:    in.Dosage,
		Frequency: in.Frequency,
		Times:     in.Times,
		Notes:     in.Notes,
		IsActive:  true,
		CreatedAt: s.now(),
	}
	if m.Times == nil {
		m.Times = []string{}
	}
	if err := validateMedication(m); err != nil {
		return nil, err
	}
	if err := s.meds.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// GetMedication returns the medication whether or not it is still active.
func (s *Service) GetMedication(ctx context.Context, userID, id uuid.UUID) (*Medication, error) {
	return access.Load(ctx, s.meds.GetByID, id, userID)
}

func (s *Service) ListMedications(ctx context.Context, userID uuid.UUID) ([]*Medication, error) {
	return s.meds.ListActiveByUser(ctx, userID)
}

func (s *Service) UpdateMedication(ctx context.Context, userID, id uuid.UUID, p MedicationPatch) (*Medication, error) {
	m, err := s.GetMedication(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		m.Name = *p.Name
	}
	if p.Dosage != nil {
		m.Dosage = *p.Dosage
	}
	if p.Frequency != nil {
		m.Frequency = *p.Frequency
	}
	if p.Times != nil {
		m.Times = *p.Times
		if m.Times == nil {
			m.Times = []string{}
		}
	}
	if p.Notes != nil {
		m.Notes = p.Notes
	}
	if p.IsActive != nil {
		m.IsActive = *p.IsActive
	}
	if err := validateMedication(m); err != nil {
		return nil, err
	}
	if err := s.meds.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// DeleteMedication deactivates the medication. It stays readable by id.
func (s *Service) DeleteMedication(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetMedication(ctx, userID, id); err != nil {
		return err
	}
	return s.meds.Deactivate(ctx, id)
}

// -- Logs --

// DayFilter turns a YYYY-MM-DD string into the scheduled-time window of that
// calendar day. An empty string means no filter.
func (s *Service) DayFilter(date string) (*LogFilter, error) {
	if date == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(DateLayout, date, s.loc)
	if err != nil {
		return nil, errs.Invalid("date must be YYYY-MM-DD")
	}
	return &LogFilter{From: day, To: day.AddDate(0, 0, 1)}, nil
}

func validateLog(l *Log) error {
	if l.ScheduledTime.IsZero() {
		return errs.Invalid("scheduledTime is required")
	}
	if !validStatuses[l.Status] {
		return errs.Invalid("unknown status %q", l.Status)
	}
	return nil
}

// stampTaken records the time a dose was marked taken when the client did
// not send one.
func (s *Service) stampTaken(l *Log) {
	if l.Status == StatusTaken && l.TakenAt == nil {
		now := s.now()
		l.TakenAt = &now
	}
}

// CreateLog records a dose of one of the caller's own medications.
func (s *Service) CreateLog(ctx context.Context, userID uuid.UUID, in LogInput) (*Log, error) {
	medID, err := uuid.Parse(in.MedicationID)
	if err != nil {
		return nil, errs.Invalid("medicationId is required")
	}
	if _, err := s.GetMedication(ctx, userID, medID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.Invalid("medication %s does not exist", medID)
		}
		return nil, fmt.Errorf("load medication: %w", err)
	}
	l := &Log{
		MedicationID:  medID,
		UserID:        userID,
		ScheduledTime: in.ScheduledTime,
		TakenAt:       in.TakenAt,
		Status:        in.Status,
		Notes:         in.Notes,
		CreatedAt:     s.now(),
	}
	if l.Status == "" {
		l.Status = StatusPending
	}
	if err := validateLog(l); err != nil {
		return nil, err
	}
	s.stampTaken(l)
	if err := s.logs.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) GetLog(ctx context.Context, userID, id uuid.UUID) (*Log, error) {
	return access.Load(ctx, s.logs.GetByID, id, userID)
}

func (s *Service) ListLogs(ctx context.Context, userID uuid.UUID, f *LogFilter) ([]*Log, error) {
	return s.logs.ListByUser(ctx, userID, f)
}

func (s *Service) UpdateLog(ctx context.Context, userID, id uuid.UUID, p LogPatch) (*Log, error) {
	l, err := s.GetLog(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.ScheduledTime != nil {
		l.ScheduledTime = *p.ScheduledTime
	}
	if p.TakenAt != nil {
		l.TakenAt = p.TakenAt
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
	if p.Notes != nil {
		l.Notes = p.Notes
	}
	if err := validateLog(l); err != nil {
		return nil, err
	}
	s.stampTaken(l)
	if err := s.logs.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}
