// Copyright 2026 The ccpack Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// NewLogger creates the root logger for a command invocation. When
// stderr is a terminal it uses slog.TextHandler for human-readable
// output; when stderr is piped or redirected (CI, scripts) it uses
// slog.JSONHandler so build logs can be parsed.
//
// Library packages receive this logger (or a child of it) explicitly
// and attach their own "component" attribute:
//
//	logger := cli.NewLogger(level)
//	packager, err := deploy.New(cfg, registry, logger)
func NewLogger(level slog.Level) *slog.Logger {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level)
}

func newLogger(w io.Writer, terminal bool, level slog.Level) *slog.Logger {
	var handler slog.Handler
	options := &slog.HandlerOptions{Level: level}
	if terminal {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}
