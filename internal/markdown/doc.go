// Package markdown turns page sources into documents: YAML front matter is
// parsed with adrg/frontmatter and bodies are rendered to HTML with goldmark.
// Files follow the <page>/<locale>.md layout; index/<locale>.md is the home page.
package markdown
