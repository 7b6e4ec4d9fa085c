// Package http serves the docs site dynamically on a net/http ServeMux.
//
// Routes:
//   - Pages: /, /{page...} (canonical, default locale)
//   - Localized pages: /{locale}/{page...} (307 to the canonical path or a render)
//   - Sitemap and robots: /sitemap.xml, /robots.txt
//   - Metadata: /api/metadata/{path...}
//   - Health: /healthz
//
// Host applications can register the handlers on their own mux.
package http
