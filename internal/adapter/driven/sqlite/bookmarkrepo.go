package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danovak/bookmarkhub/internal/domain/model"
	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.BookmarkStore = (*BookmarkRepo)(nil)

// BookmarkRepo is the SQLite implementation of the BookmarkStore port interface.
// Every query is filtered by user_id; row-level ownership is enforced here and
// nowhere else.
type BookmarkRepo struct {
	db *DB
}

// NewBookmarkRepo creates a new BookmarkRepo backed by the given DB.
func NewBookmarkRepo(db *DB) *BookmarkRepo {
	return &BookmarkRepo{db: db}
}

// ListByUser returns all bookmarks owned by userID ordered by created_at
// descending (most recent first). Returns an empty slice when there are none.
func (r *BookmarkRepo) ListByUser(ctx context.Context, userID string) ([]model.Bookmark, error) {
	const query = `SELECT id, title, url, user_id, created_at FROM bookmarks WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.Reader.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks for user %s: %w", userID, err)
	}
	defer rows.Close()

	bookmarks := []model.Bookmark{}
	for rows.Next() {
		var bm model.Bookmark
		var createdAt string
		if err := rows.Scan(&bm.ID, &bm.Title, &bm.URL, &bm.UserID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		bm.CreatedAt, err = parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at for bookmark %s: %w", bm.ID, err)
		}
		bookmarks = append(bookmarks, bm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookmarks: %w", err)
	}

	return bookmarks, nil
}

// Insert persists a new bookmark with a store-generated id and creation
// timestamp, and returns the stored record.
func (r *BookmarkRepo) Insert(ctx context.Context, bm model.Bookmark) (model.Bookmark, error) {
	const query = `INSERT INTO bookmarks (id, title, url, user_id, created_at) VALUES (?, ?, ?, ?, ?)`

	bm.ID = uuid.NewString()
	bm.CreatedAt = time.Now().UTC()

	_, err := r.db.Writer.ExecContext(ctx, query, bm.ID, bm.Title, bm.URL, bm.UserID, bm.CreatedAt.Format(storedTimeLayout))
	if err != nil {
		return model.Bookmark{}, fmt.Errorf("insert bookmark: %w", err)
	}

	return bm, nil
}

// Update sets title and url on the row matching both id and ownerID.
// Returns driven.ErrBookmarkNotFound when no row matches, which covers both
// missing ids and rows owned by a different user.
func (r *BookmarkRepo) Update(ctx context.Context, id, ownerID, title, url string) error {
	const query = `UPDATE bookmarks SET title = ?, url = ? WHERE id = ? AND user_id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, title, url, id, ownerID)
	if err != nil {
		return fmt.Errorf("update bookmark %s: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update bookmark %s rows affected: %w", id, err)
	}
	if rows == 0 {
		return fmt.Errorf("update bookmark %s: %w", id, driven.ErrBookmarkNotFound)
	}

	return nil
}

// Delete removes the row matching both id and ownerID. A missing or
// non-owned id is a silent no-op, so delete is idempotent and an id guessed
// by another user cannot remove the record.
func (r *BookmarkRepo) Delete(ctx context.Context, id, ownerID string) error {
	const query = `DELETE FROM bookmarks WHERE id = ? AND user_id = ?`

	_, err := r.db.Writer.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete bookmark %s: %w", id, err)
	}

	return nil
}

// storedTimeLayout is fixed-width so TEXT ordering matches chronological
// ordering; nanosecond precision keeps back-to-back inserts distinct.
const storedTimeLayout = "2006-01-02 15:04:05.000000000"

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		storedTimeLayout,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
