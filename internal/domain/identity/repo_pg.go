package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memorycare/memorycare/internal/platform/db"
	"github.com/memorycare/memorycare/internal/platform/errs"
)

// =========== User Repository ===========

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) db.Queryable { return db.Conn(ctx, r.pool) }

const userCols = `id, username, password, email, first_name, last_name, role, profile_photo_url, created_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.Email, &u.FirstName, &u.LastName,
		&u.Role, &u.ProfilePhotoURL, &u.CreatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &u, nil
}

func userConflict(err error) error {
	switch {
	case db.UniqueViolation(err, "users_username_key"):
		return errs.Conflict(msgUsernameTaken)
	case db.UniqueViolation(err, "users_email_key"):
		return errs.Conflict(msgEmailTaken)
	}
	return err
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO users (id, username, password, email, first_name, last_name, role, profile_photo_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		u.ID, u.Username, u.Password, u.Email, u.FirstName, u.LastName, u.Role, u.ProfilePhotoURL,
	).Scan(&u.CreatedAt)
	return userConflict(err)
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE username = $1`, username))
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.conn(ctx).QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE lower(email) = lower($1)`, email))
}

func (r *userRepoPG) Update(ctx context.Context, u *User) error {
	err := db.ExpectOne(r.conn(ctx).Exec(ctx, `
		UPDATE users SET username=$2, password=$3, email=$4, first_name=$5, last_name=$6,
			role=$7, profile_photo_url=$8
		WHERE id = $1`,
		u.ID, u.Username, u.Password, u.Email, u.FirstName, u.LastName, u.Role, u.ProfilePhotoURL))
	return userConflict(err)
}

// =========== Caregiver Link Repository ===========

type linkRepoPG struct{ pool *pgxpool.Pool }

func NewCaregiverLinkRepoPG(pool *pgxpool.Pool) CaregiverLinkRepository {
	return &linkRepoPG{pool: pool}
}

func (r *linkRepoPG) conn(ctx context.Context) db.Queryable { return db.Conn(ctx, r.pool) }

func (r *linkRepoPG) Create(ctx context.Context, l *CaregiverPatient) error {
	l.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO caregiver_patients (id, caregiver_id, patient_id)
		VALUES ($1,$2,$3)
		RETURNING created_at`,
		l.ID, l.CaregiverID, l.PatientID,
	).Scan(&l.CreatedAt)
	if db.UniqueViolation(err, "caregiver_patients_pair_key") {
		return errs.Conflict(msgAlreadyLinked)
	}
	return err
}

func (r *linkRepoPG) Delete(ctx context.Context, caregiverID, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM caregiver_patients WHERE caregiver_id = $1 AND patient_id = $2`, caregiverID, patientID)
	return err
}

func (r *linkRepoPG) ListPatients(ctx context.Context, caregiverID uuid.UUID) ([]*User, error) {
	return r.listUsers(ctx, `
		SELECT u.id, u.username, u.password, u.email, u.first_name, u.last_name, u.role, u.profile_photo_url, u.created_at
		FROM caregiver_patients cp JOIN users u ON u.id = cp.patient_id
		WHERE cp.caregiver_id = $1
		ORDER BY cp.created_at`, caregiverID)
}

func (r *linkRepoPG) ListCaregivers(ctx context.Context, patientID uuid.UUID) ([]*User, error) {
	return r.listUsers(ctx, `
		SELECT u.id, u.username, u.password, u.email, u.first_name, u.last_name, u.role, u.profile_photo_url, u.created_at
		FROM caregiver_patients cp JOIN users u ON u.id = cp.caregiver_id
		WHERE cp.patient_id = $1
		ORDER BY cp.created_at`, patientID)
}

func (r *linkRepoPG) listUsers(ctx context.Context, query string, arg uuid.UUID) ([]*User, error) {
	rows, err := r.conn(ctx).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := make([]*User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
