// Package templates holds the shared HTML layout for all pages.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Layout wraps page content in the full HTML document. The CSRF token is
// exposed via a meta tag so dashboard.js can send it as a request header.
func Layout(title, csrfToken string, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		head := `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta name="csrf-token" content="` + templ.EscapeString(csrfToken) + `">
<title>` + templ.EscapeString(title) + `</title>
<link rel="stylesheet" href="/static/app.css">
</head>
<body>
`
		if _, err := io.WriteString(w, head); err != nil {
			return err
		}
		if err := content.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n</body>\n</html>\n")
		return err
	})
}
