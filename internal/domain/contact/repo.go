package contact

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contact, error)
	// ListByUser returns the user's contacts ordered by name. With
	// emergencyOnly set it keeps only those flagged isEmergency.
	ListByUser(ctx context.Context, userID uuid.UUID, emergencyOnly bool) ([]*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
}
