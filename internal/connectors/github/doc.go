// Package github reads markdown documents from a GitHub repository.
//
// The repository tree is listed once per enumeration with a single
// recursive tree request, and blobs are fetched on demand when a
// document is loaded. Nothing is cloned to disk.
//
// # Repository Spec
//
// Repositories are named as "owner/repo" or "owner/repo@ref", where ref
// is a branch, tag or commit SHA. Without a ref the repository's default
// branch is used.
//
// # Authentication
//
// A token is read from the GITHUB_TOKEN environment variable through
// [auth.EnvTokenProvider]. Without one the API is read anonymously,
// which GitHub limits to 60 requests per hour. Authenticated requests
// get 5,000 per hour.
//
// # Rate Limiting
//
// Requests are throttled proactively with a token bucket and reactively
// from the X-RateLimit response headers. When the remaining quota drops
// below a small reserve, requests wait for the reset time.
//
// [auth.EnvTokenProvider]: github.com/custodia-labs/markdown-graph/internal/adapters/driven/auth.EnvTokenProvider
package github
