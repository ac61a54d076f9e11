// Package objectstore stores uploaded photos and audio for MemoryCare
// entities. Clients upload directly to a signed URL, then attach the object
// to an entity; attaching records an ACL policy with the object and rewrites
// the upload URL into a stable /objects/... entity path.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/memorycare/memorycare/internal/platform/errs"
)

var (
	// ErrObjectNotFound also covers objects claimed by another owner, so the
	// entity routes answer 404 without revealing the object exists.
	ErrObjectNotFound = fmt.Errorf("object %w", errs.ErrNotFound)
	ErrInvalidUpload  = errors.New("invalid or expired upload url")
	ErrObjectTooLarge = errors.New("object exceeds maximum allowed size")
)

// UploadPrefix is the key prefix for every uploaded object.
const UploadPrefix = "uploads/"

// EntityPrefix is the URL prefix under which objects are served.
const EntityPrefix = "/objects/"

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key         string
	ContentType string
	Size        int64
	ETag        string
	UpdatedAt   time.Time
	ACL         *ACLPolicy
}

// Backend is the contract for object storage implementations.
type Backend interface {
	// UploadURL returns a URL that accepts a single PUT of the object body
	// until ttl elapses.
	UploadURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	// KeyFromURL recognises upload URLs issued by this backend.
	KeyFromURL(u *url.URL) (string, bool)
	Stat(ctx context.Context, key string) (ObjectInfo, error)
	// SetACL records policy on the object. It fails with ErrObjectNotFound
	// when the object is missing or already owned by someone else.
	SetACL(ctx context.Context, key string, policy ACLPolicy) error
	Open(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
}
