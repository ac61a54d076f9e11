package journal

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type MemoryRepository interface {
	Create(ctx context.Context, m *Memory) error
	GetByID(ctx context.Context, id uuid.UUID) (*Memory, error)
	// ListByUser returns the user's memories, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Memory, error)
	// Modify loads the memory, lets fn change it and stores the result in one
	// step, so concurrent writers such as AppendPhoto are not overwritten.
	// An error from fn aborts without writing.
	Modify(ctx context.Context, id uuid.UUID, fn func(m *Memory) error) (*Memory, error)
	// AppendPhoto adds url to the end of photoUrls in one step.
	AppendPhoto(ctx context.Context, id uuid.UUID, url string, at time.Time) (*Memory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type FamiliarFaceRepository interface {
	Create(ctx context.Context, f *FamiliarFace) error
	GetByID(ctx context.Context, id uuid.UUID) (*FamiliarFace, error)
	// ListByUser returns the user's familiar faces ordered by name.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*FamiliarFace, error)
	Update(ctx context.Context, f *FamiliarFace) error
	Delete(ctx context.Context, id uuid.UUID) error
}
