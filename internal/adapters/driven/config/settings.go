// Package config maps configuration keys onto domain.Settings.
package config

import (
	"fmt"
	"time"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
	"github.com/custodia-labs/markdown-graph/internal/core/ports/driven"
)

// Configuration keys.
const (
	KeyOutputPath          = "output.path"
	KeyOutputFormat        = "output.format"
	KeyRepositoryKind      = "repository.kind"
	KeyRepositoryExcludes  = "repository.excludes"
	KeyRepositoryHidden    = "repository.include_hidden"
	KeyRepositoryGitHub    = "repository.github"
	KeyGraphAttribution    = "graph.link_attribution"
	KeyGraphImplicitLinks  = "graph.implicit_links"
	KeyGraphSections       = "graph.sections"
	KeyGraphConcurrency    = "graph.concurrency"
	KeyWatchDebounceMillis = "watch.debounce_ms"
	KeyWatchSaveMillis     = "watch.save_delay_ms"
	KeyMetricsAddress      = "metrics.address"
)

// LoadSettings returns DefaultSettings overlaid with every key present
// in store. A nil store yields the defaults. Unknown enumeration values
// are rejected with domain.ErrInvalidInput.
func LoadSettings(store driven.ConfigStore) (domain.Settings, error) {
	s := domain.DefaultSettings()
	if store == nil {
		return s, nil
	}

	if v := store.GetString(KeyOutputPath); v != "" {
		s.Output.Path = v
	}
	if v := store.GetString(KeyOutputFormat); v != "" {
		format := domain.OutputFormat(v)
		if !format.IsValid() {
			return s, fmt.Errorf("%w: %s = %q", domain.ErrInvalidInput, KeyOutputFormat, v)
		}
		s.Output.Format = format
	}

	if v := store.GetString(KeyRepositoryKind); v != "" {
		kind := domain.RepositoryKind(v)
		if !kind.IsValid() {
			return s, fmt.Errorf("%w: %s = %q", domain.ErrInvalidInput, KeyRepositoryKind, v)
		}
		s.Repository.Kind = kind
	}
	if _, ok := store.Get(KeyRepositoryExcludes); ok {
		s.Repository.Excludes = store.GetStringSlice(KeyRepositoryExcludes)
	}
	if _, ok := store.Get(KeyRepositoryHidden); ok {
		s.Repository.IncludeHidden = store.GetBool(KeyRepositoryHidden)
	}
	if v := store.GetString(KeyRepositoryGitHub); v != "" {
		s.Repository.GitHub = v
	}

	if v := store.GetString(KeyGraphAttribution); v != "" {
		attribution := domain.LinkAttribution(v)
		if !attribution.IsValid() {
			return s, fmt.Errorf("%w: %s = %q", domain.ErrInvalidInput, KeyGraphAttribution, v)
		}
		s.Graph.Attribution = attribution
	}
	if _, ok := store.Get(KeyGraphImplicitLinks); ok {
		s.Graph.ImplicitLinks = store.GetBool(KeyGraphImplicitLinks)
	}
	if _, ok := store.Get(KeyGraphSections); ok {
		s.Graph.Sections = store.GetBool(KeyGraphSections)
	}
	if v := store.GetInt(KeyGraphConcurrency); v > 0 {
		s.Graph.Concurrency = v
	}

	if v := store.GetInt(KeyWatchDebounceMillis); v > 0 {
		s.Watch.Debounce = time.Duration(v) * time.Millisecond
	}
	if v := store.GetInt(KeyWatchSaveMillis); v > 0 {
		s.Watch.SaveDelay = time.Duration(v) * time.Millisecond
	}
	if v := store.GetString(KeyMetricsAddress); v != "" {
		s.Watch.MetricsAddress = v
	}

	return s, nil
}
