package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danovak/bookmarkhub/internal/domain/model"
	"github.com/danovak/bookmarkhub/internal/domain/port/driven"
)

const bookmarksTable = "bookmarks"

// ValidationError reports a rejected required field. It is raised before any
// gateway or store call is issued, so a validation failure never costs a
// network round trip.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// BookmarkService is the bookmark store access layer. Every operation first
// resolves the current authenticated user from the session token, then issues
// exactly one store call; ownership filtering is delegated to the store.
// Successful mutations publish a change notification so other clients
// re-fetch.
type BookmarkService struct {
	store    driven.BookmarkStore
	gateway  driven.IdentityGateway // nil when the gateway is unconfigured
	notifier driven.ChangeNotifier
	logger   *slog.Logger
}

// NewBookmarkService creates a BookmarkService. gateway may be nil when no
// gateway credentials are configured; every operation then fails with
// driven.ErrGatewayUnconfigured.
func NewBookmarkService(
	store driven.BookmarkStore,
	gateway driven.IdentityGateway,
	notifier driven.ChangeNotifier,
	logger *slog.Logger,
) *BookmarkService {
	return &BookmarkService{
		store:    store,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
	}
}

// List returns the current user's bookmarks ordered most recent first.
// An absent or rejected session degrades to an empty list rather than an
// error: at initial page load there is often no session yet.
func (s *BookmarkService) List(ctx context.Context, accessToken string) ([]model.Bookmark, error) {
	user, err := s.currentUser(ctx, accessToken)
	if errors.Is(err, driven.ErrUnauthenticated) {
		return []model.Bookmark{}, nil
	}
	if err != nil {
		return nil, err
	}

	return s.store.ListByUser(ctx, user.ID)
}

// Create validates title and url, then inserts a bookmark owned by the
// current user. On success a change notification is published.
func (s *BookmarkService) Create(ctx context.Context, accessToken, title, url string) (model.Bookmark, error) {
	if err := validateFields(title, url); err != nil {
		return model.Bookmark{}, err
	}

	user, err := s.currentUser(ctx, accessToken)
	if err != nil {
		return model.Bookmark{}, err
	}

	bm, err := s.store.Insert(ctx, model.Bookmark{
		Title:  title,
		URL:    url,
		UserID: user.ID,
	})
	if err != nil {
		return model.Bookmark{}, err
	}

	s.publish(ctx, model.ChangeInsert, bm.ID, user.ID)
	return bm, nil
}

// Update validates title and url, then updates only those two fields on the
// row matching both id and the current user. On success a change
// notification is published.
func (s *BookmarkService) Update(ctx context.Context, accessToken, id, title, url string) error {
	if err := validateFields(title, url); err != nil {
		return err
	}

	user, err := s.currentUser(ctx, accessToken)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, id, user.ID, title, url); err != nil {
		return err
	}

	s.publish(ctx, model.ChangeUpdate, id, user.ID)
	return nil
}

// Delete removes the bookmark matching both id and the current user. A
// missing or non-owned id is a silent no-op; a change notification is still
// published, which at worst triggers one redundant re-fetch.
func (s *BookmarkService) Delete(ctx context.Context, accessToken, id string) error {
	user, err := s.currentUser(ctx, accessToken)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id, user.ID); err != nil {
		return err
	}

	s.publish(ctx, model.ChangeDelete, id, user.ID)
	return nil
}

// currentUser resolves the authenticated principal for the given session
// token. An empty token short-circuits to ErrUnauthenticated without a
// gateway round trip.
func (s *BookmarkService) currentUser(ctx context.Context, accessToken string) (*model.User, error) {
	if s.gateway == nil {
		return nil, driven.ErrGatewayUnconfigured
	}
	if accessToken == "" {
		return nil, driven.ErrUnauthenticated
	}
	return s.gateway.CurrentUser(ctx, accessToken)
}

// publish sends a change notification. Failure to notify never fails the
// mutation that already committed; it is logged and dropped.
func (s *BookmarkService) publish(ctx context.Context, op model.ChangeOp, id, userID string) {
	err := s.notifier.Publish(ctx, model.Change{
		Table:    bookmarksTable,
		Op:       op,
		RecordID: id,
		UserID:   userID,
	})
	if err != nil {
		s.logger.Warn("failed to publish change notification", "op", op, "record_id", id, "error", err)
	}
}

func validateFields(title, url string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(url) == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	return nil
}
