// Package log wires the slog default logger for the project.
package log

import (
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/journal"
)

var globalLevel = &slog.LevelVar{}

// Init installs the default log handler.
//
// When stderr is connected to the systemd journal, records are forwarded to
// the journal with matching priorities. Otherwise the standard text handler
// is kept and only its level is adjusted.
func Init() {
	isJournalStream, err := journal.StderrIsJournalStream()
	if err != nil {
		slog.Warn(fmt.Sprintf("Error checking if stderr is connected to the journal: %v", err))
	}

	if isJournalStream {
		slog.SetDefault(slog.New(&journalHandler{}))
		return
	}
	slog.SetLogLoggerLevel(globalLevel.Level())
}

// SetLevel changes the global handler log level.
func SetLevel(l slog.Level) {
	globalLevel.Set(l)
	slog.SetLogLoggerLevel(l)
}
