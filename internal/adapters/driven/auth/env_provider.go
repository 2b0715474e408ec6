package auth

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Ensure EnvTokenProvider implements the TokenProvider interface.
var _ driven.TokenProvider = (*EnvTokenProvider)(nil)

// GitHubTokenEnv is the environment variable holding a GitHub token.
const GitHubTokenEnv = "GITHUB_TOKEN"

// EnvTokenProvider reads a personal access token from the environment.
// The variable is read on every call so a token loaded from .env after
// construction is still picked up.
type EnvTokenProvider struct {
	name string
}

// NewEnvTokenProvider creates a provider for the named variable.
// An empty name selects GitHubTokenEnv.
func NewEnvTokenProvider(name string) *EnvTokenProvider {
	if name == "" {
		name = GitHubTokenEnv
	}
	return &EnvTokenProvider{name: name}
}

// GetToken returns the token, or an empty string when the variable is unset.
func (p *EnvTokenProvider) GetToken(_ context.Context) (string, error) {
	return strings.TrimSpace(os.Getenv(p.name)), nil
}

// IsAuthenticated returns true if the variable holds a token.
func (p *EnvTokenProvider) IsAuthenticated() bool {
	return strings.TrimSpace(os.Getenv(p.name)) != ""
}
