// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log binds the go-ethereum slog handlers to per-package loggers.
// Loggers returned by WithContext follow the default logger even when SetDefault runs after they were created,
// so they can be package-level vars.
package log

import (
	"context"
	"log/slog"
	"sync/atomic"

	ethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// FromLegacyLevel maps a 0 (crit) to 5 (trace) verbosity onto slog levels. Larger values mean trace.
func FromLegacyLevel(lvl int) slog.Level {
	return ethlog.FromLegacyLevel(lvl)
}

// LevelString is the lower case name of l, e.g. "info".
func LevelString(l slog.Level) string {
	return ethlog.LevelString(l)
}

// Logger is what packages log through.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	// Crit logs and exits the process.
	Crit(msg string, ctx ...any)
	Enabled(ctx context.Context, level slog.Level) bool
}

func NewLogger(h slog.Handler) ethlog.Logger {
	return ethlog.NewLogger(h)
}

// SetDefault replaces the root logger, and with it the target of every WithContext logger.
func SetDefault(l ethlog.Logger) {
	ethlog.SetDefault(l)
}

// WithContext returns a logger that adds ctx to every record.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{attrs: ctx}
}

func Info(msg string, ctx ...any) {
	ethlog.Root().Info(msg, ctx...)
}

type binding struct {
	root   ethlog.Logger
	logger ethlog.Logger
}

type lazyLogger struct {
	attrs []any
	bound atomic.Pointer[binding]
}

func (l *lazyLogger) current() ethlog.Logger {
	root := ethlog.Root()
	if b := l.bound.Load(); b != nil && b.root == root {
		return b.logger
	}
	b := &binding{root, root.With(l.attrs...)}
	l.bound.Store(b)
	return b.logger
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { l.current().Trace(msg, ctx...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { l.current().Debug(msg, ctx...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { l.current().Info(msg, ctx...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { l.current().Warn(msg, ctx...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { l.current().Error(msg, ctx...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { l.current().Crit(msg, ctx...) }

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return l.current().Enabled(ctx, level)
}
