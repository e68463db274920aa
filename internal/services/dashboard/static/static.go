// Package static embeds the dashboard's stylesheet and script.
package static

import "embed"

// FS exposes static assets for HTTP serving.
//
//go:embed *.css *.js
var FS embed.FS
