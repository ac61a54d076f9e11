package behavior

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/auth"
	"github.com/memorycare/memorycare/internal/platform/errs"
	"github.com/memorycare/memorycare/internal/platform/store"
)

const dateLayout = "2006-01-02"

type Service struct {
	logs LogRepository
	now  func() time.Time
	loc  *time.Location
}

func NewService(logs LogRepository) *Service {
	return &Service{logs: logs, now: store.Now, loc: time.Local}
}

func validateLog(l *Log) error {
	if strings.TrimSpace(l.Mood) == "" {
		return errs.Invalid("mood is required")
	}
	if l.Date.IsZero() {
		return errs.Invalid("date is required")
	}
	if l.SleepHours != nil && (*l.SleepHours < 0 || *l.SleepHours > 24) {
		return errs.Invalid("sleepHours must be between 0 and 24")
	}
	return nil
}

// CreateLog records an entry about the caller. When the caller is a
// caregiver the entry also carries their id as the recorder.
func (s *Service) CreateLog(ctx context.Context, caller auth.Caller, in LogInput) (*Log, error) {
	l := &Log{
		UserID:        caller.ID,
		Mood:          in.Mood,
		SleepHours:    in.SleepHours,
		Appetite:      in.Appetite,
		ActivityLevel: in.ActivityLevel,
		Notes:         in.Notes,
		Date:          in.Date,
		CreatedAt:     s.now(),
	}
	if caller.IsCaregiver() {
		id := caller.ID
		l.CaregiverID = &id
	}
	if err := validateLog(l); err != nil {
		return nil, err
	}
	if err := s.logs.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) GetLog(ctx context.Context, userID, id uuid.UUID) (*Log, error) {
	return access.Load(ctx, s.logs.GetByID, id, userID)
}

func (s *Service) ListLogs(ctx context.Context, userID uuid.UUID, r *Range) ([]*Log, error) {
	return s.logs.ListByUser(ctx, userID, r)
}

// ParseRange builds the listing range from the startDate and endDate query
// values. Both must be present for a range to apply. Each accepts RFC 3339
// or YYYY-MM-DD; a bare end date covers that whole day.
func (s *Service) ParseRange(start, end string) (*Range, error) {
	if start == "" || end == "" {
		return nil, nil
	}
	from, _, err := s.parseBound(start)
	if err != nil {
		return nil, err
	}
	to, dateOnly, err := s.parseBound(end)
	if err != nil {
		return nil, err
	}
	if dateOnly {
		to = to.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &Range{Start: from, End: to}, nil
}

func (s *Service) parseBound(v string) (time.Time, bool, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, false, nil
	}
	t, err := time.ParseInLocation(dateLayout, v, s.loc)
	if err != nil {
		return time.Time{}, false, errs.Invalid("invalid date %q", v)
	}
	return t, true, nil
}

func (s *Service) UpdateLog(ctx context.Context, userID, id uuid.UUID, p LogPatch) (*Log, error) {
	l, err := s.GetLog(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.Mood != nil {
		l.Mood = *p.Mood
	}
	if p.SleepHours != nil {
		l.SleepHours = p.SleepHours
	}
	if p.Appetite != nil {
		l.Appetite = p.Appetite
	}
	if p.ActivityLevel != nil {
		l.ActivityLevel = p.ActivityLevel
	}
	if p.Notes != nil {
		l.Notes = p.Notes
	}
	if p.Date != nil {
		l.Date = *p.Date
	}
	if err := validateLog(l); err != nil {
		return nil, err
	}
	if err := s.logs.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}
