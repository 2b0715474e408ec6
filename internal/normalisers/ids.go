package normalisers

import (
	"strings"

	"github.com/google/uuid"
)

const markdownExt = ".md"

// Fingerprint returns a stable hash for a document name.
// The same name always yields the same value across runs and machines.
func Fingerprint(name string) string {
	if name == "" {
		return "0"
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}

// DocumentID converts a relative path into a document ID: the .md
// extension is removed, separators become "-" and the result is
// lowercased, so "notes/Sub/Foo.md" becomes "notes-sub-foo".
func DocumentID(relPath string) string {
	id := relPath
	if len(id) >= len(markdownExt) && strings.EqualFold(id[len(id)-len(markdownExt):], markdownExt) {
		id = id[:len(id)-len(markdownExt)]
	}
	id = strings.ReplaceAll(id, "\\", "-")
	id = strings.ReplaceAll(id, "/", "-")
	return strings.ToLower(id)
}
