package web

import "embed"

// TemplatesFS embeds the Markdown report templates.
//
//go:embed templates/*.md.tmpl
var TemplatesFS embed.FS
