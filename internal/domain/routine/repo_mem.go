package routine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/store"
)

func cloneTask(t DailyTask) DailyTask {
	t.Description = store.Ptr(t.Description)
	t.Steps = json.RawMessage(store.Slice(t.Steps))
	t.CompletedAt = store.Ptr(t.CompletedAt)
	t.ScheduledTime = store.Ptr(t.ScheduledTime)
	return t
}

func bySchedule(a, b DailyTask) bool {
	ka, kb := scheduleKey(&a), scheduleKey(&b)
	if ka != kb {
		return ka < kb
	}
	return a.CreatedAt.Before(b.CreatedAt)
}

type taskRepoMem struct{ rows *store.Table[DailyTask] }

func NewTaskRepoMem() TaskRepository {
	return &taskRepoMem{rows: store.NewTable(cloneTask)}
}

func (r *taskRepoMem) Create(_ context.Context, t *DailyTask) error {
	t.ID = uuid.New()
	r.rows.Insert(t.ID, *t)
	return nil
}

func (r *taskRepoMem) GetByID(_ context.Context, id uuid.UUID) (*DailyTask, error) {
	t, err := r.rows.Get(id)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *taskRepoMem) ListByUser(_ context.Context, userID uuid.UUID) ([]*DailyTask, error) {
	return pointers(r.rows.Select(func(t DailyTask) bool { return t.UserID == userID }, bySchedule)), nil
}

func (r *taskRepoMem) ListOpenOrCompletedIn(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*DailyTask, error) {
	return pointers(r.rows.Select(func(t DailyTask) bool {
		if t.UserID != userID {
			return false
		}
		return t.CompletedAt == nil || (!t.CompletedAt.Before(from) && t.CompletedAt.Before(to))
	}, bySchedule)), nil
}

func (r *taskRepoMem) Update(_ context.Context, t *DailyTask) error {
	return r.rows.Replace(t.ID, *t)
}

func (r *taskRepoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.rows.Delete(id)
	return nil
}

func pointers(rows []DailyTask) []*DailyTask {
	out := make([]*DailyTask, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out
}
