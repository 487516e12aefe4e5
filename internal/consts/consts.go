// Package consts defines the constants used by the project.
package consts

import "log/slog"

var (
	// Version is the version of the executable.
	Version = "Dev"
)

const (
	// DefaultLevelLog is the default logging level selected without any option.
	DefaultLevelLog = slog.LevelWarn

	// DefaultPort is the port the administrative service listens on by default.
	DefaultPort = 4502
)
