package github

import (
	"fmt"
	"strings"
)

// Config identifies the repository to read and filters its tree.
type Config struct {
	// Owner is the user or organisation that owns the repository.
	Owner string

	// Repo is the repository name.
	Repo string

	// Ref is a branch, tag or commit SHA. Empty selects the default branch.
	Ref string

	// Excludes are directory names or glob patterns that are skipped.
	Excludes []string

	// IncludeHidden reads dot-prefixed files and directories.
	IncludeHidden bool
}

// ParseRepoSpec parses "owner/repo" or "owner/repo@ref".
func ParseRepoSpec(spec string) (Config, error) {
	spec = strings.TrimSpace(spec)
	name, ref, hasRef := strings.Cut(spec, "@")
	if hasRef && ref == "" {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidRepoSpec, spec)
	}

	owner, repo, ok := strings.Cut(name, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return Config{}, fmt.Errorf("%w: %q", ErrInvalidRepoSpec, spec)
	}

	return Config{Owner: owner, Repo: repo, Ref: ref}, nil
}

// FullName returns "owner/repo".
func (c Config) FullName() string {
	return c.Owner + "/" + c.Repo
}
