// assets/embed.go
//
// Embedded static data: the built-in vocabulary list.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.json
var FS embed.FS

// WordList returns the raw built-in vocabulary JSON.
func WordList() ([]byte, error) {
	return fs.ReadFile(FS, "words.json")
}
