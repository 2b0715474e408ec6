// Package services implements the driving port interfaces.
// Services contain the core graph logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go with no CGO and no adapter dependencies; the
// only import outside the standard library is golang.org/x/sync for
// batched document loading.
package services
