package routine

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/errs"
	"github.com/memorycare/memorycare/internal/platform/store"
)

type Service struct {
	tasks TaskRepository
	now   func() time.Time
	// loc decides where "today" starts and ends.
	loc *time.Location
}

func NewService(tasks TaskRepository) *Service {
	return &Service{tasks: tasks, now: store.Now, loc: time.Local}
}

func validateTask(t *DailyTask) error {
	if strings.TrimSpace(t.Title) == "" {
		return errs.Invalid("title is required")
	}
	if !validCategories[t.Category] {
		return errs.Invalid("unknown category %q", t.Category)
	}
	if t.ScheduledTime != nil {
		if _, err := time.Parse("15:04", *t.ScheduledTime); err != nil {
			return errs.Invalid("scheduledTime must be HH:MM")
		}
	}
	if len(t.Steps) > 0 && !json.Valid(t.Steps) {
		return errs.Invalid("steps is not valid JSON")
	}
	return nil
}

func (s *Service) CreateTask(ctx context.Context, userID uuid.UUID, in TaskInput) (*DailyTask, error) {
	t := &DailyTask{
		UserID:        userID,
		Title:         in.Title,
		Description:   in.Description,
		Steps:         in.Steps,
		Category:      in.Category,
		ScheduledTime: in.ScheduledTime,
		CreatedAt:     s.now(),
	}
	if string(t.Steps) == "null" {
		t.Steps = nil
	}
	if err := validateTask(t); err != nil {
		return nil, err
	}
	s.setCompletion(t, in.IsCompleted, in.CompletedAt)
	if err := s.tasks.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// setCompletion keeps isCompleted and completedAt consistent: completing
// without a timestamp stamps now, un-completing clears it.
func (s *Service) setCompletion(t *DailyTask, completed bool, at *time.Time) {
	t.IsCompleted = completed
	switch {
	case !completed:
		t.CompletedAt = nil
	case at != nil:
		t.CompletedAt = at
	default:
		now := s.now()
		t.CompletedAt = &now
	}
}

func (s *Service) GetTask(ctx context.Context, userID, id uuid.UUID) (*DailyTask, error) {
	return access.Load(ctx, s.tasks.GetByID, id, userID)
}

func (s *Service) ListTasks(ctx context.Context, userID uuid.UUID) ([]*DailyTask, error) {
	return s.tasks.ListByUser(ctx, userID)
}

// ListTodayTasks returns the tasks still open plus those completed during
// the current calendar day. A task completed yesterday is left out.
func (s *Service) ListTodayTasks(ctx context.Context, userID uuid.UUID) ([]*DailyTask, error) {
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	return s.tasks.ListOpenOrCompletedIn(ctx, userID, start, start.AddDate(0, 0, 1))
}

func (s *Service) UpdateTask(ctx context.Context, userID, id uuid.UUID, p TaskPatch) (*DailyTask, error) {
	t, err := s.GetTask(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = p.Description
	}
	if p.Steps != nil {
		t.Steps = p.Steps
		if string(p.Steps) == "null" {
			t.Steps = nil
		}
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.ScheduledTime != nil {
		t.ScheduledTime = p.ScheduledTime
	}
	if err := validateTask(t); err != nil {
		return nil, err
	}
	switch {
	case p.IsCompleted != nil:
		s.setCompletion(t, *p.IsCompleted, p.CompletedAt)
	case p.CompletedAt != nil && t.IsCompleted:
		t.CompletedAt = p.CompletedAt
	}
	if err := s.tasks.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) DeleteTask(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetTask(ctx, userID, id); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, id)
}
