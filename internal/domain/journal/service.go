package journal

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/access"
	"github.com/memorycare/memorycare/internal/platform/errs"
	"github.com/memorycare/memorycare/internal/platform/store"
)

// PhotoAttacher claims an uploaded object for its owner and returns the path
// to store on the record.
type PhotoAttacher interface {
	AttachPrivate(ctx context.Context, rawURL string, owner uuid.UUID) (string, error)
}

type Service struct {
	memories MemoryRepository
	faces    FamiliarFaceRepository
	photos   PhotoAttacher
	now      func() time.Time
}

func NewService(memories MemoryRepository, faces FamiliarFaceRepository, photos PhotoAttacher) *Service {
	return &Service{memories: memories, faces: faces, photos: photos, now: store.Now}
}

// -- Memories --

func (s *Service) CreateMemory(ctx context.Context, userID uuid.UUID, in MemoryInput) (*Memory, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errs.Invalid("title is required")
	}
	photos := in.PhotoURLs
	if photos == nil {
		photos = []string{}
	}
	now := s.now()
	m := &Memory{
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		PhotoURLs: photos,
		AudioURL:  in.AudioURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.memories.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) GetMemory(ctx context.Context, userID, id uuid.UUID) (*Memory, error) {
	return access.Load(ctx, s.memories.GetByID, id, userID)
}

func (s *Service) ListMemories(ctx context.Context, userID uuid.UUID) ([]*Memory, error) {
	return s.memories.ListByUser(ctx, userID)
}

// UpdateMemory merges p into the memory. The ownership check and the merge
// run inside the repository's Modify, so a photo appended concurrently is
// kept unless p replaces photoUrls.
func (s *Service) UpdateMemory(ctx context.Context, userID, id uuid.UUID, p MemoryPatch) (*Memory, error) {
	return s.memories.Modify(ctx, id, func(m *Memory) error {
		if !m.AccessibleBy(userID) {
			return errs.ErrNotFound
		}
		if p.Title != nil {
			if strings.TrimSpace(*p.Title) == "" {
				return errs.Invalid("title must not be empty")
			}
			m.Title = *p.Title
		}
		if p.Content != nil {
			m.Content = p.Content
		}
		if p.PhotoURLs != nil {
			m.PhotoURLs = *p.PhotoURLs
			if m.PhotoURLs == nil {
				m.PhotoURLs = []string{}
			}
		}
		if p.AudioURL != nil {
			m.AudioURL = p.AudioURL
		}
		m.UpdatedAt = s.touch(m.CreatedAt)
		return nil
	})
}

// touch returns the update timestamp, kept strictly after createdAt even
// when the clock has not advanced at storage precision.
func (s *Service) touch(createdAt time.Time) time.Time {
	now := s.now()
	if !now.After(createdAt) {
		now = createdAt.Add(time.Microsecond)
	}
	return now
}

func (s *Service) DeleteMemory(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetMemory(ctx, userID, id); err != nil {
		return err
	}
	return s.memories.Delete(ctx, id)
}

// AddMemoryPhoto appends an uploaded photo to the memory after marking the
// object private to the caller.
func (s *Service) AddMemoryPhoto(ctx context.Context, userID, id uuid.UUID, photoURL string) (*Memory, error) {
	if photoURL == "" {
		return nil, errs.Invalid("photoURL is required")
	}
	m, err := s.GetMemory(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	path, err := s.photos.AttachPrivate(ctx, photoURL, userID)
	if err != nil {
		return nil, err
	}
	return s.memories.AppendPhoto(ctx, id, path, s.touch(m.CreatedAt))
}

// -- Familiar faces --

func validateFace(name, relationship, photoURL string) error {
	if strings.TrimSpace(name) == "" {
		return errs.Invalid("name is required")
	}
	if strings.TrimSpace(relationship) == "" {
		return errs.Invalid("relationship is required")
	}
	if strings.TrimSpace(photoURL) == "" {
		return errs.Invalid("photoUrl is required")
	}
	return nil
}

func (s *Service) CreateFamiliarFace(ctx context.Context, userID uuid.UUID, in FamiliarFaceInput) (*FamiliarFace, error) {
	if err := validateFace(in.Name, in.Relationship, in.PhotoURL); err != nil {
		return nil, err
	}
	f := &FamiliarFace{
		UserID:       userID,
		Name:         in.Name,
		Relationship: in.Relationship,
		PhotoURL:     in.PhotoURL,
		Description:  in.Description,
		CreatedAt:    s.now(),
	}
	if err := s.faces.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) GetFamiliarFace(ctx context.Context, userID, id uuid.UUID) (*FamiliarFace, error) {
	return access.Load(ctx, s.faces.GetByID, id, userID)
}

func (s *Service) ListFamiliarFaces(ctx context.Context, userID uuid.UUID) ([]*FamiliarFace, error) {
	return s.faces.ListByUser(ctx, userID)
}

func (s *Service) UpdateFamiliarFace(ctx context.Context, userID, id uuid.UUID, p FamiliarFacePatch) (*FamiliarFace, error) {
	f, err := s.GetFamiliarFace(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Relationship != nil {
		f.Relationship = *p.Relationship
	}
	if p.PhotoURL != nil {
		f.PhotoURL = *p.PhotoURL
	}
	if p.Description != nil {
		f.Description = p.Description
	}
	if err := validateFace(f.Name, f.Relationship, f.PhotoURL); err != nil {
		return nil, err
	}
	if err := s.faces.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (s *Service) DeleteFamiliarFace(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.GetFamiliarFace(ctx, userID, id); err != nil {
		return err
	}
	return s.faces.Delete(ctx, id)
}

// SetFamiliarFacePhoto replaces the face's photo with an uploaded object.
func (s *Service) SetFamiliarFacePhoto(ctx context.Context, userID, id uuid.UUID, photoURL string) (*FamiliarFace, error) {
	if photoURL == "" {
		return nil, errs.Invalid("photoURL is required")
	}
	f, err := s.GetFamiliarFace(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	path, err := s.photos.AttachPrivate(ctx, photoURL, userID)
	if err != nil {
		return nil, err
	}
	f.PhotoURL = path
	if err := s.faces.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}
