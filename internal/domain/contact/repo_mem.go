package contact

import (
	"context"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/store"
)

func cloneContact(c Contact) Contact {
	c.PhoneNumber = store.Ptr(c.PhoneNumber)
	c.Email = store.Ptr(c.Email)
	c.PhotoURL = store.Ptr(c.PhotoURL)
	return c
}

type repoMem struct{ rows *store.Table[Contact] }

func NewRepoMem() Repository {
	return &repoMem{rows: store.NewTable(cloneContact)}
}

func (r *repoMem) Create(_ context.Context, c *Contact) error {
	c.ID = uuid.New()
	r.rows.Insert(c.ID, *c)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id uuid.UUID) (*Contact, error) {
	c, err := r.rows.Get(id)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoMem) ListByUser(_ context.Context, userID uuid.UUID, emergencyOnly bool) ([]*Contact, error) {
	rows := r.rows.Select(
		func(c Contact) bool { return c.UserID == userID && (!emergencyOnly || c.IsEmergency) },
		func(a, b Contact) bool { return store.NameLess(a.Name, b.Name) },
	)
	out := make([]*Contact, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (r *repoMem) Update(_ context.Context, c *Contact) error {
	return r.rows.Replace(c.ID, *c)
}

func (r *repoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.rows.Delete(id)
	return nil
}
