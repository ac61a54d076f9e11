package contact

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/errs"
	"github.com/memorycare/memorycare/internal/platform/store"
)

// PhotoAttacher claims an uploaded object for its owner and returns the path
// to store on the contact.
type PhotoAttacher interface {
	AttachPrivate(ctx context.Context, rawURL string, owner uuid.UUID) (string, error)
}

type Service struct {
	contacts Repository
	photos   PhotoAttacher
	now      func() time.Time
}

func NewService(contacts Repository, photos PhotoAttacher) *Service {
	return &Service{contacts: contacts, photos: photos, now: store.Now}
}

func validate(c *Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return errs.Invalid("name is required")
	}
	if strings.TrimSpace(c.Relationship) == "" {
		return errs.Invalid("relationship is required")
	}
	if !validCategory(c.Category) {
		return errs.Invalid("category must be family, medical or emergency")
	}
	if c.Email != nil && *c.Email != "" {
		if _, err := mail.ParseAddress(*c.Email); err != nil {
			return errs.Invalid("email is not valid")
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, in Input) (*Contact, error) {
	c := &Contact{
		UserID:       userID,
		Name:         in.Name,
		Relationship: in.Relationship,
		PhoneNumber:  in.PhoneNumber,
		Email:        in.Email,
		PhotoURL:     in.PhotoURL,
		Category:     in.Category,
		IsEmergency:  in.IsEmergency,
		CreatedAt:    s.now(),
	}
	if c.Category == "" {
		c.Category = CategoryFamily
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.contacts.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Contact, error) {
	return access.Load(ctx, s.contacts.GetByID, id, userID)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Contact, error) {
	return s.contacts.ListByUser(ctx, userID, false)
}

// ListEmergency returns the contacts surfaced for one-tap dialing.
func (s *Service) ListEmergency(ctx context.Context, userID uuid.UUID) ([]*Contact, error) {
	return s.contacts.ListByUser(ctx, userID, true)
}

func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, p Patch) (*Contact, error) {
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Relationship != nil {
		c.Relationship = *p.Relationship
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = p.PhoneNumber
	}
	if p.Email != nil {
		c.Email = p.Email
	}
	if p.PhotoURL != nil {
		c.PhotoURL = p.PhotoURL
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.IsEmergency != nil {
		c.IsEmergency = *p.IsEmergency
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.contacts.Delete(ctx, id)
}

// SetPhoto points the contact at an uploaded object owned by userID.
func (s *Service) SetPhoto(ctx context.Context, userID, id uuid.UUID, photoURL string) (*Contact, error) {
	if photoURL == "" {
		return nil, errs.Invalid("photoURL is required")
	}
	c, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	path, err := s.photos.AttachPrivate(ctx, photoURL, userID)
	if err != nil {
		return nil, err
	}
	c.PhotoURL = &path
	if err := s.contacts.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
