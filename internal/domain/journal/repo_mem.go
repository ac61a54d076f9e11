package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/store"
)

func cloneMemory(m Memory) Memory {
	m.Content = store.Ptr(m.Content)
	m.AudioURL = store.Ptr(m.AudioURL)
	m.PhotoURLs = store.Slice(m.PhotoURLs)
	return m
}

func cloneFace(f FamiliarFace) FamiliarFace {
	f.Description = store.Ptr(f.Description)
	return f
}

// -- Memories --

type memoryRepoMem struct{ rows *store.Table[Memory] }

func NewMemoryRepoMem() MemoryRepository {
	return &memoryRepoMem{rows: store.NewTable(cloneMemory)}
}

func (r *memoryRepoMem) Create(_ context.Context, m *Memory) error {
	m.ID = uuid.New()
	r.rows.Insert(m.ID, *m)
	return nil
}

func (r *memoryRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Memory, error) {
	m, err := r.rows.Get(id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memoryRepoMem) ListByUser(_ context.Context, userID uuid.UUID) ([]*Memory, error) {
	rows := r.rows.Select(
		func(m Memory) bool { return m.UserID == userID },
		func(a, b Memory) bool { return a.CreatedAt.After(b.CreatedAt) },
	)
	out := make([]*Memory, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (r *memoryRepoMem) Modify(_ context.Context, id uuid.UUID, fn func(m *Memory) error) (*Memory, error) {
	m, err := r.rows.Modify(id, func(m Memory) (Memory, error) {
		err := fn(&m)
		return m, err
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memoryRepoMem) AppendPhoto(_ context.Context, id uuid.UUID, url string, at time.Time) (*Memory, error) {
	m, err := r.rows.Modify(id, func(m Memory) (Memory, error) {
		m.PhotoURLs = append(m.PhotoURLs, url)
		m.UpdatedAt = at
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *memoryRepoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.rows.Delete(id)
	return nil
}

// -- Familiar faces --

type faceRepoMem struct{ rows *store.Table[FamiliarFace] }

func NewFamiliarFaceRepoMem() FamiliarFaceRepository {
	return &faceRepoMem{rows: store.NewTable(cloneFace)}
}

func (r *faceRepoMem) Create(_ context.Context, f *FamiliarFace) error {
	f.ID = uuid.New()
	r.rows.Insert(f.ID, *f)
	return nil
}

func (r *faceRepoMem) GetByID(_ context.Context, id uuid.UUID) (*FamiliarFace, error) {
	f, err := r.rows.Get(id)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *faceRepoMem) ListByUser(_ context.Context, userID uuid.UUID) ([]*FamiliarFace, error) {
	rows := r.rows.Select(
		func(f FamiliarFace) bool { return f.UserID == userID },
		func(a, b FamiliarFace) bool { return store.NameLess(a.Name, b.Name) },
	)
	out := make([]*FamiliarFace, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (r *faceRepoMem) Update(_ context.Context, f *FamiliarFace) error {
	return r.rows.Replace(f.ID, *f)
}

func (r *faceRepoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.rows.Delete(id)
	return nil
}
