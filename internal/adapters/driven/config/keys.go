package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/custodia-labs/markdown-graph/internal/core/domain"
)

// valueKind is the TOML type a key is stored as.
type valueKind int

const (
	kindString valueKind = iota
	kindBool
	kindInt
	kindStringList
)

func (k valueKind) String() string {
	switch k {
	case kindBool:
		return "bool"
	case kindInt:
		return "int"
	case kindStringList:
		return "list"
	default:
		return "string"
	}
}

// keySpec describes one recognised configuration key.
type keySpec struct {
	kind  valueKind
	usage string
	// valid reports whether a string value is allowed. Nil accepts any.
	valid func(string) bool
}

var keySpecs = map[string]keySpec{
	KeyOutputPath:   {kind: kindString, usage: "graph output file"},
	KeyOutputFormat: {kind: kindString, usage: "json or sqlite", valid: func(v string) bool { return domain.OutputFormat(v).IsValid() }},
	KeyRepositoryKind: {kind: kindString, usage: "file or github", valid: func(v string) bool {
		return domain.RepositoryKind(v).IsValid() && domain.RepositoryKind(v) != domain.RepositoryMemory
	}},
	KeyRepositoryExcludes:  {kind: kindStringList, usage: "comma separated directory names to skip"},
	KeyRepositoryHidden:    {kind: kindBool, usage: "scan dot-prefixed files and directories"},
	KeyRepositoryGitHub:    {kind: kindString, usage: "owner/repo[@ref]"},
	KeyGraphAttribution:    {kind: kindString, usage: "document or section", valid: func(v string) bool { return domain.LinkAttribution(v).IsValid() }},
	KeyGraphImplicitLinks:  {kind: kindBool, usage: "infer implicit links"},
	KeyGraphSections:       {kind: kindBool, usage: "emit a node per subsection"},
	KeyGraphConcurrency:    {kind: kindInt, usage: "documents loaded per batch"},
	KeyWatchDebounceMillis: {kind: kindInt, usage: "quiet period per path in milliseconds"},
	KeyWatchSaveMillis:     {kind: kindInt, usage: "quiet period before saving in milliseconds"},
	KeyMetricsAddress:      {kind: kindString, usage: "address serving /metrics in watch mode"},
}

// Keys returns every recognised configuration key in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(keySpecs))
	for key := range keySpecs {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// Usage returns a one-line description of key and its type.
func Usage(key string) string {
	spec, ok := keySpecs[key]
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s (%s)", spec.usage, spec.kind)
}

// ParseValue converts raw into the value stored for key: a bool, an int,
// a string list split on commas, or the string itself. Unknown keys and
// values LoadSettings would reject return domain.ErrInvalidInput.
func ParseValue(key, raw string) (any, error) {
	spec, ok := keySpecs[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	switch spec.kind {
	case kindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false, got %q", domain.ErrInvalidInput, key, raw)
		}
		return v, nil

	case kindInt:
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("%w: %s must be a positive integer, got %q", domain.ErrInvalidInput, key, raw)
		}
		return v, nil

	case kindStringList:
		items := []string{}
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil

	default:
		if spec.valid != nil && !spec.valid(raw) {
			return nil, fmt.Errorf("%w: %s must be %s, got %q", domain.ErrInvalidInput, key, spec.usage, raw)
		}
		return raw, nil
	}
}
