package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Dashboard renders the bookmark table shell and the add/edit modal. Rows
// are fetched and re-fetched by dashboard.js, which also listens on the
// change event stream.
func Dashboard(csrfToken string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		page := `<main class="dashboard">
<header class="toolbar">
<h1>Bookmarks</h1>
<div class="actions">
<button id="add-bookmark" class="primary">Add Bookmark</button>
<form method="post" action="/auth/logout" class="inline">
<input type="hidden" name="csrf_token" value="` + templ.EscapeString(csrfToken) + `">
<button type="submit" class="secondary">Sign out</button>
</form>
</div>
</header>
<div id="error" class="error-banner" hidden></div>
<div class="panel">
<table>
<thead>
<tr><th>Title</th><th>URL</th><th>Created</th><th class="right">Actions</th></tr>
</thead>
<tbody id="bookmark-rows"></tbody>
</table>
<p id="empty-state" class="hint" hidden>No bookmarks yet.</p>
</div>
<dialog id="bookmark-modal">
<form id="bookmark-form" method="dialog">
<h2 id="modal-title">Add New Bookmark</h2>
<input type="hidden" id="bookmark-id" value="">
<label for="title">Title</label>
<input id="title" type="text" required placeholder="Enter bookmark title">
<label for="url">URL</label>
<input id="url" type="url" required placeholder="https://example.com">
<div class="modal-actions">
<button type="button" id="cancel" class="secondary">Cancel</button>
<button type="submit" class="primary">Save</button>
</div>
</form>
</dialog>
</main>
<script src="/static/dashboard.js"></script>`
		_, err := io.WriteString(w, page)
		return err
	})
}
