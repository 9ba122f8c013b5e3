// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// Format names an output encoding of the node log.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatJSON     Format = "json"
)

// NewHandler returns a handler writing format to w. Records below lvl are dropped;
// lvl may change at runtime. Unknown formats fall back to terminal.
func NewHandler(w io.Writer, format Format, lvl *slog.LevelVar, useColor bool) slog.Handler {
	var h slog.Handler
	switch format {
	case FormatJSON:
		h = ethlog.JSONHandler(w)
	default:
		h = ethlog.NewTerminalHandler(w, useColor)
	}
	return &levelFilter{h, lvl}
}

type levelFilter struct {
	slog.Handler
	lvl *slog.LevelVar
}

func (f *levelFilter) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= f.lvl.Level() && f.Handler.Enabled(ctx, level)
}

func (f *levelFilter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelFilter{f.Handler.WithAttrs(attrs), f.lvl}
}

func (f *levelFilter) WithGroup(name string) slog.Handler {
	return &levelFilter{f.Handler.WithGroup(name), f.lvl}
}
