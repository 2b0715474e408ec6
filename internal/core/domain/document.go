package domain

// Document is a markdown document ready for graph assembly.
// It is the canonical representation after normalisation.
type Document struct {
	// ID is the stable, case-normalised identifier for the document.
	// The root section of the document becomes the node with this ID.
	ID string

	// Hash is a stable fingerprint of the document's origin.
	Hash string

	// Content is the markdown body with any frontmatter removed.
	Content string

	// Metadata contains flattened frontmatter key-value pairs.
	// Attached to every node the document produces.
	Metadata map[string]string
}

// ReferenceKind tags the repository a DocumentReference belongs to.
type ReferenceKind string

const (
	// ReferenceFile is a markdown file below a root directory.
	ReferenceFile ReferenceKind = "file"

	// ReferenceMemory is an entry in an in-memory content map.
	ReferenceMemory ReferenceKind = "memory"

	// ReferenceGitHub is a blob in a GitHub repository tree.
	ReferenceGitHub ReferenceKind = "github"
)

// String returns the string representation.
func (k ReferenceKind) String() string {
	return string(k)
}

// DocumentReference identifies a document without loading it.
// Loaders dispatch on Kind and read only the fields that kind carries.
type DocumentReference struct {
	// Kind selects which repository can load the reference.
	Kind ReferenceKind

	// ID is the document ID the loaded document will carry.
	ID string

	// Hash is a stable fingerprint of the reference.
	Hash string

	// Path is the slash-separated path relative to the corpus root.
	// Set for file and github references.
	Path string

	// Key is the content map key. Set for memory references.
	Key string

	// Repo is "owner/name". Set for github references.
	Repo string

	// Ref is the branch, tag or commit the tree was read at.
	// Set for github references.
	Ref string

	// SHA is the blob SHA. Set for github references.
	SHA string
}
