package driven

import (
	"context"
	"errors"

	"github.com/danovak/bookmarkhub/internal/domain/model"
)

// ErrBookmarkNotFound is returned by Update when no row matches both the
// bookmark id and the owner id. It covers missing rows and rows owned by a
// different user alike, so callers cannot distinguish the two.
var ErrBookmarkNotFound = errors.New("bookmark not found")

// BookmarkStore defines the driven port for bookmark persistence. Every
// operation that touches rows is filtered by the owning user's id; ownership
// enforcement lives here, not in the application layer.
type BookmarkStore interface {
	// ListByUser returns all bookmarks owned by userID ordered by created_at
	// descending. Returns an empty slice, not an error, when there are none.
	ListByUser(ctx context.Context, userID string) ([]model.Bookmark, error)

	// Insert persists a new bookmark. The store assigns ID and CreatedAt and
	// returns the stored record.
	Insert(ctx context.Context, bm model.Bookmark) (model.Bookmark, error)

	// Update sets title and url on the row matching both id and ownerID.
	// Returns ErrBookmarkNotFound when no such row exists.
	Update(ctx context.Context, id, ownerID, title, url string) error

	// Delete removes the row matching both id and ownerID. Deleting a
	// missing or non-owned row is a silent no-op.
	Delete(ctx context.Context, id, ownerID string) error
}
