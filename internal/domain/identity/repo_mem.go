package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/memorycare/memorycare/internal/platform/errs"
	"github.com/memorycare/memorycare/internal/platform/store"
)

func cloneUser(u User) User {
	if u.ProfilePhotoURL != nil {
		p := *u.ProfilePhotoURL
		u.ProfilePhotoURL = &p
	}
	return u
}

type userRepoMem struct {
	// mu serialises the uniqueness check with the write.
	mu    sync.Mutex
	users *store.Table[User]
}

func NewUserRepoMem() UserRepository {
	return &userRepoMem{users: store.NewTable(cloneUser)}
}

func (r *userRepoMem) Create(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(uuid.Nil, u.Username, u.Email); err != nil {
		return err
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	r.users.Insert(u.ID, *u)
	return nil
}

func (r *userRepoMem) checkUnique(self uuid.UUID, username, email string) error {
	if _, err := r.users.Find(func(o User) bool { return o.ID != self && o.Username == username }); err == nil {
		return errs.Conflict(msgUsernameTaken)
	}
	if _, err := r.users.Find(func(o User) bool { return o.ID != self && strings.EqualFold(o.Email, email) }); err == nil {
		return errs.Conflict(msgEmailTaken)
	}
	return nil
}

func (r *userRepoMem) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, err := r.users.Get(id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoMem) GetByUsername(_ context.Context, username string) (*User, error) {
	u, err := r.users.Find(func(o User) bool { return o.Username == username })
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoMem) GetByEmail(_ context.Context, email string) (*User, error) {
	u, err := r.users.Find(func(o User) bool { return strings.EqualFold(o.Email, email) })
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoMem) Update(_ context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(u.ID, u.Username, u.Email); err != nil {
		return err
	}
	return r.users.Replace(u.ID, *u)
}

type linkRepoMem struct {
	mu    sync.Mutex
	links *store.Table[CaregiverPatient]
	users UserRepository
}

// NewCaregiverLinkRepoMem resolves linked accounts through users.
func NewCaregiverLinkRepoMem(users UserRepository) CaregiverLinkRepository {
	return &linkRepoMem{links: store.NewTable[CaregiverPatient](nil), users: users}
}

func (r *linkRepoMem) Create(_ context.Context, l *CaregiverPatient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.links.Find(func(o CaregiverPatient) bool {
		return o.CaregiverID == l.CaregiverID && o.PatientID == l.PatientID
	})
	if err == nil {
		return errs.Conflict(msgAlreadyLinked)
	}
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	r.links.Insert(l.ID, *l)
	return nil
}

func (r *linkRepoMem) Delete(_ context.Context, caregiverID, patientID uuid.UUID) error {
	r.links.DeleteWhere(func(o CaregiverPatient) bool {
		return o.CaregiverID == caregiverID && o.PatientID == patientID
	})
	return nil
}

func (r *linkRepoMem) ListPatients(ctx context.Context, caregiverID uuid.UUID) ([]*User, error) {
	links := r.links.Select(func(o CaregiverPatient) bool { return o.CaregiverID == caregiverID }, byLinkCreated)
	return r.resolve(ctx, links, func(l CaregiverPatient) uuid.UUID { return l.PatientID })
}

func (r *linkRepoMem) ListCaregivers(ctx context.Context, patientID uuid.UUID) ([]*User, error) {
	links := r.links.Select(func(o CaregiverPatient) bool { return o.PatientID == patientID }, byLinkCreated)
	return r.resolve(ctx, links, func(l CaregiverPatient) uuid.UUID { return l.CaregiverID })
}

// resolve skips links whose account no longer exists.
func (r *linkRepoMem) resolve(ctx context.Context, links []CaregiverPatient, pick func(CaregiverPatient) uuid.UUID) ([]*User, error) {
	users := make([]*User, 0, len(links))
	for _, l := range links {
		u, err := r.users.GetByID(ctx, pick(l))
		if err != nil {
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func byLinkCreated(a, b CaregiverPatient) bool { return a.CreatedAt.Before(b.CreatedAt) }
