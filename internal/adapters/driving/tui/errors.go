package tui

import "errors"

// ErrMissingWatchService is returned when the watch service is not provided.
var ErrMissingWatchService = errors.New("tui: watch service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
