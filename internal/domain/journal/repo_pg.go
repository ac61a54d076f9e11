package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/memorycare/memorycare/internal/platform/db"
	"github.com/memorycare/memorycare/internal/platform/store"
)

// =========== Memory Repository ===========

type memoryRepoPG struct{ pool *pgxpool.Pool }

func NewMemoryRepoPG(pool *pgxpool.Pool) MemoryRepository { return &memoryRepoPG{pool: pool} }

func (r *memoryRepoPG) conn(ctx context.Context) db.Queryable { return db.Conn(ctx, r.pool) }

const memoryCols = `id, user_id, title, content, photo_urls, audio_url, created_at, updated_at`

func scanMemory(row pgx.Row) (*Memory, error) {
	var m Memory
	err := row.Scan(&m.ID, &m.UserID, &m.Title, &m.Content, &m.PhotoURLs, &m.AudioURL,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &m, nil
}

func (r *memoryRepoPG) Create(ctx context.Context, m *Memory) error {
	m.ID = uuid.New()
	if m.PhotoURLs == nil {
		m.PhotoURLs = []string{}
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO memories (id, user_id, title, content, photo_urls, audio_url, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.UserID, m.Title, m.Content, m.PhotoURLs, m.AudioURL, m.CreatedAt, m.UpdatedAt)
	return err
}

func (r *memoryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Memory, error) {
	return scanMemory(r.conn(ctx).QueryRow(ctx, `SELECT `+memoryCols+` FROM memories WHERE id = $1`, id))
}

func (r *memoryRepoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Memory, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+memoryCols+` FROM memories WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*Memory, 0)
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *memoryRepoPG) Modify(ctx context.Context, id uuid.UUID, fn func(m *Memory) error) (*Memory, error) {
	var out *Memory
	err := db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		m, err := scanMemory(r.conn(ctx).QueryRow(ctx,
			`SELECT `+memoryCols+` FROM memories WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := fn(m); err != nil {
			return err
		}
		if m.PhotoURLs == nil {
			m.PhotoURLs = []string{}
		}
		err = db.ExpectOne(r.conn(ctx).Exec(ctx, `
			UPDATE memories SET title=$2, content=$3, photo_urls=$4, audio_url=$5, updated_at=$6
			WHERE id = $1`,
			m.ID, m.Title, m.Content, m.PhotoURLs, m.AudioURL, m.UpdatedAt))
		if err != nil {
			return err
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *memoryRepoPG) AppendPhoto(ctx context.Context, id uuid.UUID, url string, at time.Time) (*Memory, error) {
	return scanMemory(r.conn(ctx).QueryRow(ctx, `
		UPDATE memories SET photo_urls = array_append(photo_urls, $2), updated_at = $3
		WHERE id = $1
		RETURNING `+memoryCols, id, url, at))
}

func (r *memoryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM memories WHERE id = $1`, id)
	return err
}

// =========== Familiar Face Repository ===========

type faceRepoPG struct{ pool *pgxpool.Pool }

func NewFamiliarFaceRepoPG(pool *pgxpool.Pool) FamiliarFaceRepository { return &faceRepoPG{pool: pool} }

func (r *faceRepoPG) conn(ctx context.Context) db.Queryable { return db.Conn(ctx, r.pool) }

const faceCols = `id, user_id, name, relationship, photo_url, description, created_at`

func scanFace(row pgx.Row) (*FamiliarFace, error) {
	var f FamiliarFace
	err := row.Scan(&f.ID, &f.UserID, &f.Name, &f.Relationship, &f.PhotoURL, &f.Description, &f.CreatedAt)
	if err != nil {
		return nil, db.NotFound(err)
	}
	return &f, nil
}

func (r *faceRepoPG) Create(ctx context.Context, f *FamiliarFace) error {
	f.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO familiar_faces (id, user_id, name, relationship, photo_url, description, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		f.ID, f.UserID, f.Name, f.Relationship, f.PhotoURL, f.Description, f.CreatedAt)
	return err
}

func (r *faceRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*FamiliarFace, error) {
	return scanFace(r.conn(ctx).QueryRow(ctx, `SELECT `+faceCols+` FROM familiar_faces WHERE id = $1`, id))
}

func (r *faceRepoPG) ListByUser(ctx context.Context, userID uuid.UUID) ([]*FamiliarFace, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+faceCols+` FROM familiar_faces WHERE user_id = $1 ORDER BY `+store.NameOrder, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]*FamiliarFace, 0)
	for rows.Next() {
		f, err := scanFace(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}

func (r *faceRepoPG) Update(ctx context.Context, f *FamiliarFace) error {
	return db.ExpectOne(r.conn(ctx).Exec(ctx, `
		UPDATE familiar_faces SET name=$2, relationship=$3, photo_url=$4, description=$5
		WHERE id = $1`,
		f.ID, f.Name, f.Relationship, f.PhotoURL, f.Description))
}

func (r *faceRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM familiar_faces WHERE id = $1`, id)
	return err
}
