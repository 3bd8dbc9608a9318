// Package views holds the storefront's templates and static assets.
package views

import "embed"

// FS is rooted at this directory: templates by path without extension
// ("layouts/main", "admin/login") and static files under static/.
//
//go:embed *.html layouts partials admin static
var FS embed.FS
