package resources

import "embed"

// FS exposes the static assets served under /static/.
//
//go:embed logo-dark.svg logo-bright.svg masthead.css
var FS embed.FS
