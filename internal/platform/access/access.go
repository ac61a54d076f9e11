// Package access implements the per-entity ownership check applied before
// every entity-scoped read or write. A caller that does not own an entity is
// told it does not exist, so existence never leaks to non-owners.
package access

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/memorycare/memorycare/internal/platform/errs"
)

// Owned is implemented by every user-scoped entity.
type Owned interface {
	AccessibleBy(userID uuid.UUID) bool
}

// Getter loads an entity by id.
type Getter[T Owned] func(ctx context.Context, id uuid.UUID) (T, error)

// Load fetches the entity and returns errs.ErrNotFound when it is absent or
// caller may not access it. Other lookup errors are returned unchanged.
func Load[T Owned](ctx context.Context, get Getter[T], id, caller uuid.UUID) (T, error) {
	var zero T
	v, err := get(ctx, id)
	if err != nil {
		return zero, err
	}
	if !v.AccessibleBy(caller) {
		return zero, errs.ErrNotFound
	}
	return v, nil
}

// HTTPError maps a lookup or mutation error to the response the routes send:
// 404 with notFound for missing or foreign entities, 500 with failed otherwise.
func HTTPError(err error, notFound, failed string) error {
	if errors.Is(err, errs.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, failed).SetInternal(err)
}

// WriteError extends HTTPError for create and update routes: validation
// failures become 400 with invalid, conflicts carry their own message.
func WriteError(err error, invalid, notFound, failed string) error {
	switch {
	case errors.Is(err, errs.ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, invalid).SetInternal(err)
	case errors.Is(err, errs.ErrConflict):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return HTTPError(err, notFound, failed)
}

// ParseID reads the :id route parameter. A malformed id is reported as
// not found, like any other id the caller cannot see.
func ParseID(c echo.Context, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusNotFound, notFound)
	}
	return id, nil
}
