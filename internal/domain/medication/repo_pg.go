package medication

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memorycare/memorycare/internal/platform/db"
	"github.com/memorycare/memorycare/internal/platform/store"
)

// =========== Medication Repository ===========

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository {
	return &medicationRepoPG{pool: pool}
}

func (r *medicationRepoPG) conn(ctx context.Context) db.Queryable { return db.Conn(ctx, r.pool) }

const medicationCols = `id, user_id, name, dosage, frequency, times, notes, is_active, created_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.UserID, &m.Name, &m.Dosage, &m.Frequency, &m.Times, &m.Notes,
		&m.IsActive, &m.CreatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &m, nil
}

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	if m.Times == nil {
		m.Times = []string{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medications (id, user_id, name, dosage, frequency, times, notes, is_active, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		m.ID, m.UserID, m.Name, m.Dosage, m.Frequency, m.Times, m.Notes, m.IsActive, m.CreatedAt)
	return err
}

func (r *medicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(r.conn(ctx).QueryRow(ctx, `SELECT `+medicationCols+` FROM medications WHERE id = $1`, id))
}

func (r *medicationRepoPG) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Medication, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medicationCols+` FROM medications WHERE user_id = $1 AND is_active ORDER BY `+store.NameOrder, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *medicationRepoPG) Update(ctx context.Context, m *Medication) error {
	if m.Times == nil {
		m.Times = []string{}
	}
	return db.ExpectOne(r.conn(ctx).Exec(ctx, `
		UPDATE medications SET name=$2, dosage=$3, frequency=$4, times=$5, notes=$6, is_active=$7
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.Frequency, m.Times, m.Notes, m.IsActive))
}

func (r *medicationRepoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	return db.ExpectOne(r.conn(ctx).Exec(ctx, `UPDATE medications SET is_active = FALSE WHERE id = $1`, id))
}

// =========== Medication Log Repository ===========

type logRepoPG struct{ pool *pgxpool.Pool }

func NewLogRepoPG(pool *pgxpool.Pool) LogRepository { return &logRepoPG{pool: pool} }

func (r *logRepoPG) conn(ctx context.Context) db.Queryable { return db.Conn(ctx, r.pool) }

const logCols = `id, medication_id, user_id, scheduled_time, taken_at, status, notes, created_at`

func scanLog(row pgx.Row) (*Log, error) {
	var l Log
	err := row.Scan(&l.ID, &l.MedicationID, &l.UserID, &l.ScheduledTime, &l.TakenAt, &l.Status,
		&l.Notes, &l.CreatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &l, nil
}

func (r *logRepoPG) Create(ctx context.Context, l *Log) error {
	l.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication_logs (id, medication_id, user_id, scheduled_time, taken_at, status, notes, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		l.ID, l.MedicationID, l.UserID, l.ScheduledTime, l.TakenAt, l.Status, l.Notes, l.CreatedAt)
	return err
}

func (r *logRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Log, error) {
	return scanLog(r.conn(ctx).QueryRow(ctx, `SELECT `+logCols+` FROM medication_logs WHERE id = $1`, id))
}

func (r *logRepoPG) ListByUser(ctx context.Context, userID uuid.UUID, f *LogFilter) ([]*Log, error) {
	query := `SELECT ` + logCols + ` FROM medication_logs WHERE user_id = $1`
	args := []interface{}{userID}
	if f != nil {
		query += ` AND scheduled_time >= $2 AND scheduled_time < $3`
		args = append(args, f.From, f.To)
	}
	query += ` ORDER BY scheduled_time`

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
		UPDATE medication_logs SET scheduled_time=$2, taken_at=$3, status=$4, notes=$5
		WHERE id = $1`,
		l.ID, l.ScheduledTime, l.TakenAt, l.Status, l.Notes))
}
