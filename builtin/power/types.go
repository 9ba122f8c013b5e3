// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package power

import (
	"github.com/holiman/uint256"

	"github.com/vechain/powerledger/builtin/reverts"
)

var (
	ErrRegistrationFailed = reverts.New("power: registration failed")
	ErrNoSuchClaim        = reverts.New("power: no such claim")
	ErrClaimUnderflow     = reverts.New("power: claim underflow")
	ErrClaimOverflow      = reverts.New("power: claim overflow")
)

// Claim is the storage power a miner declares.
// Both magnitudes move independently; quality adjusted power may drop below raw power.
type Claim struct {
	RawBytePower    uint64 `json:"rawBytePower"`
	QualityAdjPower uint64 `json:"qualityAdjPower"`
}

// Stats are the contract-wide aggregates.
type Stats struct {
	MinerCount           uint64 `json:"minerCount"`
	TotalRawBytePower    uint64 `json:"totalRawBytePower"`
	TotalQualityAdjPower uint64 `json:"totalQualityAdjPower"`
}

// applyDelta adds a signed delta to an unsigned magnitude.
// It never wraps: results below zero or above MaxUint64 are errors.
func applyDelta(value uint64, delta int64) (uint64, error) {
	v := uint256.NewInt(value)
	if delta < 0 {
		// uint64(-delta) is exact for math.MinInt64 as well
		if _, underflow := v.SubOverflow(v, uint256.NewInt(uint64(-delta))); underflow {
			return 0, ErrClaimUnderflow
		}
		return v.Uint64(), nil
	}
	// 256 bits hold any sum of two uint64, so only the narrowing can fail
	if v.AddUint64(v, uint64(delta)); !v.IsUint64() {
		return 0, ErrClaimOverflow
	}
	return v.Uint64(), nil
}
