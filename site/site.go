// Package site embeds the Gemini CLI documentation sources.
package site

import (
	"embed"
	"io/fs"
)

// ContentRoot is the directory inside FS holding page sources.
const ContentRoot = "content"

//go:embed content
var files embed.FS

// FS returns the embedded sources rooted at the module's site directory.
func FS() fs.FS {
	return files
}
