package objectstore

import (
	"encoding/json"
	"fmt"
)

// Visibility controls who besides the owner may read an object.
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Permission is the kind of access requested on an object.
type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

// ACLPolicy is stored alongside every object that has been attached to an
// entity. Objects without a policy are only reachable through their signed
// upload URL.
type ACLPolicy struct {
	Owner      string     `json:"owner"`
	Visibility Visibility `json:"visibility"`
}

func (p ACLPolicy) validate() error {
	if p.Owner == "" {
		return fmt.Errorf("acl policy owner is required")
	}
	if p.Visibility != VisibilityPublic && p.Visibility != VisibilityPrivate {
		return fmt.Errorf("invalid acl visibility %q", p.Visibility)
	}
	return nil
}

// claims reports whether p may be written over existing: an object is
// claimed by its first owner and only that owner may change its policy.
func (p ACLPolicy) claims(existing *ACLPolicy) bool {
	return existing == nil || existing.Owner == p.Owner
}

func (p ACLPolicy) encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodePolicy(raw string) (*ACLPolicy, error) {
	if raw == "" {
		return nil, nil
	}
	var p ACLPolicy
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("decode acl policy: %w", err)
	}
	return &p, nil
}

// CanAccess reports whether userID may perform perm on an object governed by
// policy. Public objects are readable by anyone; everything else is
// restricted to the owner. Objects with no policy are not accessible.
func CanAccess(policy *ACLPolicy, userID string, perm Permission) bool {
	if policy == nil {
		return false
	}
	if perm == PermissionRead && policy.Visibility == VisibilityPublic {
		return true
	}
	return userID != "" && policy.Owner == userID
}
