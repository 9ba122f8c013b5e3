// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package minerid

import (
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/powerledger/thor"
)

func TestDerive(t *testing.T) {
	assert.Equal(t,
		thor.MustParseAddress("0x6d696e65720000002a0000000000000000000000"),
		Derive(42))
}

func TestRoundTrip(t *testing.T) {
	f := fuzz.New()
	indexes := []uint32{0, 1, 2, math.MaxUint32}
	for range 256 {
		var n uint32
		f.Fuzz(&n)
		indexes = append(indexes, n)
	}

	for _, n := range indexes {
		got, ok := Recover(Derive(n))
		assert.True(t, ok, "index %d", n)
		assert.Equal(t, n, got)
	}
}

func TestRecoverRejects(t *testing.T) {
	wrongTag := Derive(7)
	wrongTag[0] = 'M'

	dirtyPadding := Derive(7)
	dirtyPadding[thor.AddressLength-1] = 1

	tests := []struct {
		name string
		addr thor.Address
	}{
		{"zero address", thor.Address{}},
		{"wrong tag", wrongTag},
		{"non-zero padding", dirtyPadding},
		{"arbitrary account", thor.MustParseAddress("0x7567d83b7b8d80addcb281a71d54fc7b3364ffed")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Recover(tt.addr)
			assert.False(t, ok)
		})
	}
}

func TestRecoverFuzzedAddresses(t *testing.T) {
	f := fuzz.New().NilChance(0)
	for range 256 {
		var addr thor.Address
		f.Fuzz(&addr)
		if n, ok := Recover(addr); ok {
			assert.Equal(t, addr, Derive(n), "recovered addresses must re-derive")
		}
	}
}
