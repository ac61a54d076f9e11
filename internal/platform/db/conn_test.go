package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/memorycare/memorycare/internal/platform/errs"
)

func TestNotFound(t *testing.T) {
	if !errors.Is(NotFound(pgx.ErrNoRows), errs.ErrNotFound) {
		t.Error("expected pgx.ErrNoRows to map to ErrNotFound")
	}
	other := errors.New("boom")
	if NotFound(other) != other {
		t.Error("expected other errors to pass through")
	}
	if NotFound(nil) != nil {
		t.Error("expected nil to stay nil")
	}
}

func TestExpectOne(t *testing.T) {
	if err := ExpectOne(pgconn.NewCommandTag("UPDATE 1"), nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	if err := ExpectOne(pgconn.NewCommandTag("DELETE 0"), nil); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	boom := errors.New("boom")
	if err := ExpectOne(pgconn.CommandTag{}, boom); err != boom {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	if !UniqueViolation(err, "users_username_key") {
		t.Error("expected match on constraint name")
	}
	if !UniqueViolation(err, "") {
		t.Error("expected match with empty constraint")
	}
	if UniqueViolation(err, "users_email_key") {
		t.Error("expected no match on other constraint")
	}
	if UniqueViolation(&pgconn.PgError{Code: "23503"}, "") {
		t.Error("expected foreign key violation not to match")
	}
	if UniqueViolation(errors.New("plain"), "") {
		t.Error("expected plain error not to match")
	}
}
