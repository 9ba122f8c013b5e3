// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package power

import (
	"math"
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/powerledger/builtin/reverts"
	"github.com/vechain/powerledger/lvldb"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
)

func newPower(t *testing.T) (*Power, *state.State) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := state.New(db)
	return New(thor.BytesToAddress([]byte("Power")), st), st
}

func TestRegisterNewMiner(t *testing.T) {
	p, _ := newPower(t)

	for i := range 3 {
		miner := thor.BytesToAddress([]byte{byte(i + 1)})
		claim, err := p.RegisterNewMiner(miner)
		require.NoError(t, err)
		assert.Equal(t, &Claim{}, claim)

		stored, err := p.Claim(miner)
		require.NoError(t, err)
		assert.Equal(t, &Claim{}, stored, "zero claim still exists")
	}

	count, err := p.MinerCount()
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), count)

	missing, err := p.Claim(thor.BytesToAddress([]byte("nobody")))
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRegisterNewMinerOverwrites(t *testing.T) {
	p, _ := newPower(t)
	miner := thor.BytesToAddress([]byte("m"))

	_, err := p.RegisterNewMiner(miner)
	require.NoError(t, err)
	_, err = p.UpdateClaim(miner, 10, 10)
	require.NoError(t, err)

	_, err = p.RegisterNewMiner(miner)
	require.NoError(t, err)

	claim, err := p.Claim(miner)
	require.NoError(t, err)
	assert.Equal(t, &Claim{}, claim)

	count, err := p.MinerCount()
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestRegisterNewMinerCountOverflow(t *testing.T) {
	p, st := newPower(t)
	p.minerCount.Set(math.MaxUint64)
	changes := st.Changes()

	_, err := p.RegisterNewMiner(thor.BytesToAddress([]byte("m")))
	assert.Equal(t, ErrRegistrationFailed, err)
	assert.True(t, reverts.IsRevertErr(err))
	assert.Equal(t, changes, st.Changes(), "nothing written")

	count, err := p.MinerCount()
	assert.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), count)
}

func TestUpdateClaim(t *testing.T) {
	p, _ := newPower(t)
	a := thor.BytesToAddress([]byte("a"))
	b := thor.BytesToAddress([]byte("b"))
	for _, m := range []thor.Address{a, b} {
		_, err := p.RegisterNewMiner(m)
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		miner   thor.Address
		raw, qa int64
		want    *Claim
		wantErr error
	}{
		{"grow a", a, 100, 150, &Claim{100, 150}, nil},
		{"grow b", b, 50, 20, &Claim{50, 20}, nil},
		{"shrink a", a, -40, -100, &Claim{60, 50}, nil},
		{"qa below raw", b, 0, -20, &Claim{50, 0}, nil},
		{"raw underflow", a, -61, 0, nil, ErrClaimUnderflow},
		{"qa underflow", b, 1, -1, nil, ErrClaimUnderflow},
		{"min int64", a, math.MinInt64, 0, nil, ErrClaimUnderflow},
		{"unknown miner", thor.BytesToAddress([]byte("c")), 1, 1, nil, ErrNoSuchClaim},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim, err := p.UpdateClaim(tt.miner, tt.raw, tt.qa)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Nil(t, claim)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, claim)
		})
	}

	stats, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{MinerCount: 2, TotalRawBytePower: 110, TotalQualityAdjPower: 50}, stats)

	raw, err := p.TotalRawBytePower()
	assert.NoError(t, err)
	assert.Equal(t, uint64(110), raw)
	qa, err := p.TotalQualityAdjPower()
	assert.NoError(t, err)
	assert.Equal(t, uint64(50), qa)
}

func TestUpdateClaimFailureLeavesStateUntouched(t *testing.T) {
	p, _ := newPower(t)
	a := thor.BytesToAddress([]byte("a"))
	b := thor.BytesToAddress([]byte("b"))
	for _, m := range []thor.Address{a, b} {
		_, err := p.RegisterNewMiner(m)
		require.NoError(t, err)
	}
	_, err := p.UpdateClaim(a, math.MaxInt64, math.MaxInt64)
	require.NoError(t, err)
	_, err = p.UpdateClaim(a, math.MaxInt64, 0)
	require.NoError(t, err)

	// claim of b has room, the aggregate does not
	_, err = p.UpdateClaim(b, 2, 0)
	assert.Equal(t, ErrClaimOverflow, err)

	claim, err := p.Claim(b)
	require.NoError(t, err)
	assert.Equal(t, &Claim{}, claim)

	stats, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxInt64)*2, stats.TotalRawBytePower)

	// raw would succeed, qa overflows: neither is applied
	_, err = p.UpdateClaim(a, -1, math.MaxInt64)
	require.NoError(t, err)
	_, err = p.UpdateClaim(a, -1, 2)
	assert.Equal(t, ErrClaimOverflow, err)

	claim, err = p.Claim(a)
	require.NoError(t, err)
	assert.Equal(t, &Claim{uint64(math.MaxInt64)*2 - 1, uint64(math.MaxInt64) * 2}, claim)
}

func TestApplyDelta(t *testing.T) {
	tests := []struct {
		value   uint64
		delta   int64
		want    uint64
		wantErr error
	}{
		{0, 0, 0, nil},
		{5, -5, 0, nil},
		{5, -6, 0, ErrClaimUnderflow},
		{math.MaxUint64 - 1, 1, math.MaxUint64, nil},
		{math.MaxUint64, 1, 0, ErrClaimOverflow},
		{1 << 63, math.MinInt64, 0, nil},
		{0, math.MinInt64, 0, ErrClaimUnderflow},
		{math.MaxUint64, math.MaxInt64, 0, ErrClaimOverflow},
		{math.MaxUint64, math.MinInt64, math.MaxUint64 - 1<<63, nil},
	}
	for _, tt := range tests {
		got, err := applyDelta(tt.value, tt.delta)
		assert.Equal(t, tt.wantErr, err, "%d%+d", tt.value, tt.delta)
		assert.Equal(t, tt.want, got)
	}
}

func TestUpdateClaimRandomized(t *testing.T) {
	p, _ := newPower(t)
	miners := make([]thor.Address, 4)
	for i := range miners {
		miners[i] = thor.BytesToAddress([]byte{byte(i + 1)})
		_, err := p.RegisterNewMiner(miners[i])
		require.NoError(t, err)
	}

	f := fuzz.New().NilChance(0)
	for range 500 {
		var (
			which   uint8
			raw, qa int16
		)
		f.Fuzz(&which)
		f.Fuzz(&raw)
		f.Fuzz(&qa)

		miner := miners[int(which)%len(miners)]
		before, err := p.Claim(miner)
		require.NoError(t, err)

		claim, err := p.UpdateClaim(miner, int64(raw), int64(qa))
		if err != nil {
			assert.Equal(t, ErrClaimUnderflow, err)
			after, err := p.Claim(miner)
			require.NoError(t, err)
			assert.Equal(t, before, after)
			continue
		}
		assert.Equal(t, int64(before.RawBytePower)+int64(raw), int64(claim.RawBytePower))
		assert.Equal(t, int64(before.QualityAdjPower)+int64(qa), int64(claim.QualityAdjPower))
	}

	// aggregates always equal the sum of the claims
	var sumRaw, sumQA uint64
	for _, m := range miners {
		c, err := p.Claim(m)
		require.NoError(t, err)
		sumRaw += c.RawBytePower
		sumQA += c.QualityAdjPower
	}
	stats, err := p.Stats()
	require.NoError(t, err)
	assert.Equal(t, &Stats{MinerCount: uint64(len(miners)), TotalRawBytePower: sumRaw, TotalQualityAdjPower: sumQA}, stats)
}
