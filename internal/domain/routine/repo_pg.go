package routine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memorycare/memorycare/internal/platform/db"
)

type taskRepoPG struct{ pool *pgxpool.Pool }

func NewTaskRepoPG(pool *pgxpool.Pool) TaskRepository { return &taskRepoPG{pool: pool} }

func (r *taskRepoPG) conn(ctx context.Context) db.Queryable { return db.Conn(ctx, r.pool) }

const taskCols = `id, user_id, title, description, steps, category, is_completed, completed_at, scheduled_time, created_at`

const taskOrder = ` ORDER BY COALESCE(scheduled_time, ''), created_at`

func scanTask(row pgx.Row) (*DailyTask, error) {
	var t DailyTask
	var steps []byte
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &steps, &t.Category,
		&t.IsCompleted, &t.CompletedAt, &t.ScheduledTime, &t.CreatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	if steps != nil {
		t.Steps = json.RawMessage(steps)
	}
	return &t, nil
}

// stepsArg sends absent steps as SQL NULL rather than the JSON literal null.
func stepsArg(steps json.RawMessage) interface{} {
	if len(steps) == 0 || string(steps) == "null" {
		return nil
	}
	return string(steps)
}

func (r *taskRepoPG) Create(ctx context.Context, t *DailyTask) error {
	t.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO daily_tasks (id, user_id, title, description, steps, category, is_completed,
			completed_at, scheduled_time, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		t.ID, t.UserID, t.Title, t.Description, stepsArg(t.Steps), t.Category, t.IsCompleted,
		t.CompletedAt, t.ScheduledTime, t.CreatedAt)
	return err
}

func (r *taskRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*DailyTask, error) {
	return scanTask(r.conn(ctx).QueryRow(ctx, `SELECT `+taskCols+` FROM daily_tasks WHERE id = $1`, id))
}

func (r *taskRepoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*DailyTask, error) {
	return r.list(ctx, `SELECT `+taskCols+` FROM daily_tasks WHERE user_id = $1`+taskOrder, userID)
}

func (r *taskRepoPG) ListOpenOrCompletedIn(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*DailyTask, error) {
	return r.list(ctx, `SELECT `+taskCols+` FROM daily_tasks
		WHERE user_id = $1 AND (completed_at IS NULL OR (completed_at >= $2 AND completed_at < $3))`+taskOrder,
		userID, from, to)
}

func (r *taskRepoPG) list(ctx context.Context, query string, args ...interface{}) ([]*DailyTask, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*DailyTask, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

func (r *taskRepoPG) Update(ctx context.Context, t *DailyTask) error {
	return db.ExpectOne(r.conn(ctx).Exec(ctx, `
		UPDATE daily_tasks SET title=$2, description=$3, steps=$4, category=$5, is_completed=$6,
			completed_at=$7, scheduled_time=$8
		WHERE id = $1`,
		t.ID, t.Title, t.Description, stepsArg(t.Steps), t.Category, t.IsCompleted,
		t.CompletedAt, t.ScheduledTime))
}

func (r *taskRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM daily_tasks WHERE id = $1`, id)
	return err
}
