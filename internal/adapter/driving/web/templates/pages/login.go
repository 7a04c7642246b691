// Package pages holds the per-page components rendered inside the layout.
package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Login renders the sign-in screen. errorMessage is shown in a banner when
// non-empty; when the gateway is unconfigured the sign-in button is disabled
// and a setup hint is shown instead.
func Login(errorMessage, csrfToken string, configured bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		write := func(s string) error {
			_, err := io.WriteString(w, s)
			return err
		}

		if err := write(`<main class="login">
<div class="card">
<h1>Welcome</h1>
<p class="subtitle">Sign in to continue</p>
`); err != nil {
			return err
		}

		if errorMessage != "" {
			if err := write(`<div class="error-banner">` + templ.EscapeString(errorMessage) + `</div>
`); err != nil {
				return err
			}
		}

		if configured {
			if err := write(`<form method="post" action="/auth/login">
<input type="hidden" name="csrf_token" value="` + templ.EscapeString(csrfToken) + `">
<button type="submit" class="signin">Sign in</button>
</form>
`); err != nil {
				return err
			}
		} else {
			if err := write(`<p class="hint">Configure BOOKMARKHUB_GATEWAY_URL and BOOKMARKHUB_GATEWAY_KEY to enable sign-in.</p>
`); err != nil {
				return err
			}
		}

		return write(`</div>
</main>`)
	})
}
