package driven

import (
	"context"

	"github.com/danovak/bookmarkhub/internal/domain/model"
)

// ChangeNotifier defines the driven port for the change-notification channel.
// Delivery is best-effort: no ordering guarantee across publishers and no
// durability, which is fine because every receipt triggers a full re-fetch.
type ChangeNotifier interface {
	// Publish broadcasts a change to all current subscribers of its table.
	Publish(ctx context.Context, ch model.Change) error

	// Subscribe returns a channel of changes for the given table and an
	// unsubscribe function. The channel is closed on unsubscribe.
	Subscribe(table string) (<-chan model.Change, func())
}
