package behavior

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memorycare/memorycare/internal/platform/db"
)

type logRepoPG struct{ pool *pgxpool.Pool }

func NewLogRepoPG(pool *pgxpool.Pool) LogRepository { return &logRepoPG{pool: pool} }

func (r *logRepoPG) conn(ctx context.Context) db.Queryable { return db.Conn(ctx, r.pool) }

const logCols = `id, user_id, caregiver_id, mood, sleep_hours, appetite, activity_level, notes, date, created_at`

func scanLog(row pgx.Row) (*Log, error) {
	var l Log
	err := row.Scan(&l.ID, &l.UserID, &l.CaregiverID, &l.Mood, &l.SleepHours, &l.Appetite,
		&l.ActivityLevel, &l.Notes, &l.Date, &l.CreatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &l, nil
}

func (r *logRepoPG) Create(ctx context.Context, l *Log) error {
	l.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO behavior_logs (id, user_id, caregiver_id, mood, sleep_hours, appetite,
			activity_level, notes, date, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		l.ID, l.UserID, l.CaregiverID, l.Mood, l.SleepHours, l.Appetite, l.ActivityLevel,
		l.Notes, l.Date, l.CreatedAt)
	return err
}

func (r *logRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Log, error) {
	return scanLog(r.conn(ctx).QueryRow(ctx, `SELECT `+logCols+` FROM behavior_logs WHERE id = $1`, id))
}

func (r *logRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, rng *Range) ([]*Log, error) {
	query := `SELECT ` + logCols + ` FROM behavior_logs WHERE user_id = $1`
	args := []interface{}{userID}
	if rng != nil {
		query += ` AND date BETWEEN $2 AND $3`
		args = append(args, rng.Start, rng.End)
	}
	query += ` ORDER BY date DESC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*Log, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	return items, rows.Err()
}

func (r *logRepoPG) Update(ctx context.Context, l *Log) error {
	return db.ExpectOne(r.conn(ctx).Exec(ctx, `
		UPDATE behavior_logs SET mood=$2, sleep_hours=$3, appetite=$4, activity_level=$5, notes=$6, date=$7
		WHERE id = $1`,
		l.ID, l.Mood, l.SleepHours, l.Appetite, l.ActivityLevel, l.Notes, l.Date))
}
