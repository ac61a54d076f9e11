package contact

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memorycare/memorycare/internal/platform/db"
	"github.com/memorycare/memorycare/internal/platform/store"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable { return db.Conn(ctx, r.pool) }

const contactCols = `id, user_id, name, relationship, phone_number, email, photo_url, category, is_emergency, created_at`

func scanContact(row pgx.Row) (*Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Relationship, &c.PhoneNumber, &c.Email,
		&c.PhotoURL, &c.Category, &c.IsEmergency, &c.CreatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &c, nil
}

func (r *repoPG) Create(ctx context.Context, c *Contact) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO contacts (id, user_id, name, relationship, phone_number, email, photo_url, category, is_emergency, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.UserID, c.Name, c.Relationship, c.PhoneNumber, c.Email, c.PhotoURL,
		c.Category, c.IsEmergency, c.CreatedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Contact, error) {
	return scanContact(r.conn(ctx).QueryRow(ctx, `SELECT `+contactCols+` FROM contacts WHERE id = $1`, id))
}

func (r *repoPG) ListByUser(ctx context.Context, userID uuid.UUID, emergencyOnly bool) ([]*Contact, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+contactCols+` FROM contacts
		WHERE user_id = $1 AND (NOT $2 OR is_emergency)
		ORDER BY `+store.NameOrder, userID, emergencyOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, c *Contact) error {
	return db.ExpectOne(r.conn(ctx).Exec(ctx, `
		UPDATE contacts SET name=$2, relationship=$3, phone_number=$4, email=$5, photo_url=$6,
			category=$7, is_emergency=$8
		WHERE id = $1`,
		c.ID, c.Name, c.Relationship, c.PhoneNumber, c.Email, c.PhotoURL, c.Category, c.IsEmergency))
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	return err
}
