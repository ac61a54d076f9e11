package objectstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MaxObjectSize is the largest body the memory backend accepts (25 MB).
const MaxObjectSize = 25 * 1024 * 1024

const (
	uploadIssuer  = "memorycare-objects"
	uploadPutPath = "/api/objects/put/"
)

type storedObject struct {
	info    ObjectInfo
	content []byte
}

// MemoryBackend keeps objects in process memory. Upload URLs point back at
// this server and carry a short-lived HS256 token naming the object key.
type MemoryBackend struct {
	mu      sync.RWMutex
	objects map[string]*storedObject
	secret  []byte
	baseURL string
	now     func() time.Time
}

// NewMemoryBackend creates a MemoryBackend. baseURL is the externally
// reachable origin of the server (e.g. "http://localhost:8000"); it may be
// empty, in which case upload URLs are root-relative.
func NewMemoryBackend(secret []byte, baseURL string) *MemoryBackend {
	return &MemoryBackend{
		objects: make(map[string]*storedObject),
		secret:  secret,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

func (m *MemoryBackend) UploadURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	id, ok := strings.CutPrefix(key, UploadPrefix)
	if !ok || id == "" {
		return "", fmt.Errorf("upload key must start with %q", UploadPrefix)
	}

	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   key,
		Issuer:    uploadIssuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign upload url: %w", err)
	}

	q := url.Values{}
	q.Set("token", token)
	return m.baseURL + uploadPutPath + url.PathEscape(id) + "?" + q.Encode(), nil
}

// VerifyUpload checks an upload token for the given object id and returns
// the object key it authorises.
func (m *MemoryBackend) VerifyUpload(objectID, token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(uploadIssuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidUpload, err)
	}
	if claims.Subject != UploadPrefix+objectID {
		return "", ErrInvalidUpload
	}
	return claims.Subject, nil
}

func (m *MemoryBackend) KeyFromURL(u *url.URL) (string, bool) {
	id, ok := strings.CutPrefix(u.Path, uploadPutPath)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return UploadPrefix + id, true
}

// Put stores content under key, replacing any previous body. An ACL policy
// already set on the key is kept.
func (m *MemoryBackend) Put(_ context.Context, key, contentType string, content io.Reader) (ObjectInfo, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxObjectSize+1))
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("read object body: %w", err)
	}
	if len(data) > MaxObjectSize {
		return ObjectInfo{}, ErrObjectTooLarge
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	sum := sha256.Sum256(data)
	info := ObjectInfo{
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
		ETag:        fmt.Sprintf("%x", sum),
		UpdatedAt:   m.now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if prev, ok := m.objects[key]; ok {
		info.ACL = prev.info.ACL
	}
	m.objects[key] = &storedObject{info: info, content: data}
	return copyInfo(info), nil
}

func (m *MemoryBackend) Stat(_ context.Context, key string) (ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return ObjectInfo{}, ErrObjectNotFound
	}
	return copyInfo(obj.info), nil
}

func (m *MemoryBackend) SetACL(_ context.Context, key string, policy ACLPolicy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok || !policy.claims(obj.info.ACL) {
		return ErrObjectNotFound
	}
	p := policy
	obj.info.ACL = &p
	return nil
}

func (m *MemoryBackend) Open(_ context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, ObjectInfo{}, ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.content)), copyInfo(obj.info), nil
}

func copyInfo(info ObjectInfo) ObjectInfo {
	if info.ACL != nil {
		p := *info.ACL
		info.ACL = &p
	}
	return info
}
