// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLegacyLevel(t *testing.T) {
	tests := []struct {
		legacy int
		want   slog.Level
	}{
		{0, LevelCrit},
		{1, LevelError},
		{2, LevelWarn},
		{3, LevelInfo},
		{4, LevelDebug},
		{5, LevelTrace},
		{9, LevelTrace},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromLegacyLevel(tt.legacy), "legacy level %d", tt.legacy)
	}
	assert.Equal(t, "warn", LevelString(LevelWarn))
}

func TestTerminalHandler(t *testing.T) {
	var out bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)

	l := NewLogger(NewHandler(&out, FormatTerminal, &lvl, false)).With("pkg", "test")
	l.Debug("hidden")
	l.Info("miner created", "index", uint64(1234567), "power", big.NewInt(-42))

	line := out.String()
	assert.NotContains(t, line, "hidden")
	assert.True(t, strings.HasPrefix(line, "INFO "), line)
	assert.Contains(t, line, "miner created")
	assert.Contains(t, line, "pkg=test")
	assert.Contains(t, line, "index=1,234,567")
	assert.Contains(t, line, "power=-42")
}

func TestLevelChangesAtRuntime(t *testing.T) {
	var out bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelWarn)

	h := NewHandler(&out, FormatTerminal, &lvl, false)
	assert.False(t, h.Enabled(context.Background(), LevelInfo))
	assert.False(t, h.WithAttrs([]slog.Attr{slog.String("k", "v")}).Enabled(context.Background(), LevelInfo))

	lvl.Set(LevelDebug)
	assert.True(t, h.Enabled(context.Background(), LevelInfo))
	assert.True(t, h.WithGroup("g").Enabled(context.Background(), LevelDebug))
}

func TestJSONHandler(t *testing.T) {
	var out bytes.Buffer
	var lvl slog.LevelVar
	lvl.Set(LevelTrace)

	l := NewLogger(NewHandler(&out, FormatJSON, &lvl, false))
	l.Trace("claim updated", "total", uint256.NewInt(7))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "trace", rec["lvl"])
	assert.Equal(t, "claim updated", rec["msg"])
	assert.Equal(t, "7", rec["total"])
}

func TestWithContextFollowsDefault(t *testing.T) {
	pkgLogger := WithContext("pkg", "late")

	var lvl slog.LevelVar
	lvl.Set(LevelInfo)
	t.Cleanup(func() { SetDefault(NewLogger(NewHandler(io.Discard, FormatTerminal, &lvl, false))) })

	var first, second bytes.Buffer
	SetDefault(NewLogger(NewHandler(&first, FormatJSON, &lvl, false)))
	pkgLogger.Info("bound after creation")
	assert.Contains(t, first.String(), `"pkg":"late"`)
	assert.False(t, pkgLogger.Enabled(context.Background(), LevelDebug))

	SetDefault(NewLogger(NewHandler(&second, FormatJSON, &lvl, false)))
	pkgLogger.Info("rebound")
	assert.NotContains(t, first.String(), "rebound")
	assert.Contains(t, second.String(), `"pkg":"late"`)
}
