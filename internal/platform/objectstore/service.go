package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultUploadTTL is how long an upload URL stays valid.
const DefaultUploadTTL = 15 * time.Minute

// Service implements the object flows used by the HTTP layer.
type Service struct {
	backend   Backend
	uploadTTL time.Duration
}

func NewService(backend Backend, uploadTTL time.Duration) *Service {
	if uploadTTL <= 0 {
		uploadTTL = DefaultUploadTTL
	}
	return &Service{backend: backend, uploadTTL: uploadTTL}
}

// Backend returns the underlying storage backend.
func (s *Service) Backend() Backend { return s.backend }

// UploadURL allocates a fresh object key and returns a signed URL for it.
func (s *Service) UploadURL(ctx context.Context) (string, error) {
	key := UploadPrefix + uuid.NewString()
	return s.backend.UploadURL(ctx, key, s.uploadTTL)
}

// NormalizePath maps an upload URL issued by the backend to its entity
// path. Entity paths pass through unchanged, and so does anything the
// backend does not recognise.
func (s *Service) NormalizePath(raw string) string {
	if strings.HasPrefix(raw, EntityPrefix) {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	key, ok := s.backend.KeyFromURL(u)
	if !ok {
		return raw
	}
	return EntityPrefix + key
}

// TrySetACLPolicy normalises raw and, when it names one of our objects,
// records policy on that object. It returns the normalised path. An object
// already owned by another user is reported as ErrObjectNotFound.
func (s *Service) TrySetACLPolicy(ctx context.Context, raw string, policy ACLPolicy) (string, error) {
	path := s.NormalizePath(raw)
	if !strings.HasPrefix(path, EntityPrefix) {
		return path, nil
	}
	if err := policy.validate(); err != nil {
		return "", err
	}
	key, err := keyFromEntityPath(path)
	if err != nil {
		return "", err
	}
	if err := s.backend.SetACL(ctx, key, policy); err != nil {
		return "", fmt.Errorf("set acl policy on %s: %w", key, err)
	}
	return path, nil
}

// AttachPrivate marks the object behind raw as owned by owner and visible to
// nobody else, returning the entity path to store on the record.
func (s *Service) AttachPrivate(ctx context.Context, raw string, owner uuid.UUID) (string, error) {
	return s.TrySetACLPolicy(ctx, raw, ACLPolicy{Owner: owner.String(), Visibility: VisibilityPrivate})
}

// Object looks up the object behind an entity path such as
// /objects/uploads/<id>.
func (s *Service) Object(ctx context.Context, entityPath string) (ObjectInfo, error) {
	key, err := keyFromEntityPath(entityPath)
	if err != nil {
		return ObjectInfo{}, err
	}
	return s.backend.Stat(ctx, key)
}

// CanAccess applies the object's ACL policy to userID.
func (s *Service) CanAccess(info ObjectInfo, userID string, perm Permission) bool {
	return CanAccess(info.ACL, userID, perm)
}

// Open returns the object body. The caller must close it.
func (s *Service) Open(ctx context.Context, info ObjectInfo) (io.ReadCloser, ObjectInfo, error) {
	return s.backend.Open(ctx, info.Key)
}

func keyFromEntityPath(path string) (string, error) {
	key, ok := strings.CutPrefix(path, EntityPrefix)
	if !ok || key == "" || strings.Contains(key, "..") {
		return "", ErrObjectNotFound
	}
	return key, nil
}

// IsNotFound reports whether err means the object does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}
