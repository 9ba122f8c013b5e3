// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package power

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vechain/powerledger/builtin/solidity"
	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
)

var logger = log.WithContext("pkg", "power")

var (
	slotClaims               = thor.BytesToBytes32([]byte("claims"))
	slotMinerCount           = thor.BytesToBytes32([]byte("miner-count"))
	slotTotalRawBytePower    = thor.BytesToBytes32([]byte("total-raw-byte-power"))
	slotTotalQualityAdjPower = thor.BytesToBytes32([]byte("total-qa-power"))
)

// Power implements the claims registry of the `Power` contract.
type Power struct {
	claims *solidity.Mapping[thor.Address, *Claim]

	minerCount           *solidity.Uint64
	totalRawBytePower    *solidity.Uint64
	totalQualityAdjPower *solidity.Uint64
}

// New create a new instance.
func New(addr thor.Address, state *state.State) *Power {
	sctx := solidity.NewContext(addr, state)
	return &Power{
		claims:               solidity.NewMapping[thor.Address, *Claim](sctx, slotClaims),
		minerCount:           solidity.NewUint64(sctx, slotMinerCount),
		totalRawBytePower:    solidity.NewUint64(sctx, slotTotalRawBytePower),
		totalQualityAdjPower: solidity.NewUint64(sctx, slotTotalQualityAdjPower),
	}
}

// RegisterNewMiner stores a zero claim for miner and bumps the miner count.
// An existing claim under the same key is overwritten; keys are expected to be fresh.
func (p *Power) RegisterNewMiner(miner thor.Address) (*Claim, error) {
	count, err := p.minerCount.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get miner count")
	}
	if count == math.MaxUint64 {
		return nil, ErrRegistrationFailed
	}

	claim := &Claim{}
	if err := p.claims.Set(miner, claim); err != nil {
		return nil, errors.Wrap(err, "set claim")
	}
	p.minerCount.Set(count + 1)

	logger.Debug("registered miner", "miner", miner, "count", count+1)
	return claim, nil
}

// UpdateClaim applies signed deltas to the claim of miner and to the aggregates.
// Nothing is written if any magnitude would leave the uint64 range.
func (p *Power) UpdateClaim(miner thor.Address, deltaRaw, deltaQA int64) (*Claim, error) {
	claim, exists, err := p.claims.Get(miner)
	if err != nil {
		return nil, errors.Wrap(err, "get claim")
	}
	if !exists {
		return nil, ErrNoSuchClaim
	}

	stats, err := p.Stats()
	if err != nil {
		return nil, err
	}

	updated := &Claim{}
	if updated.RawBytePower, err = applyDelta(claim.RawBytePower, deltaRaw); err != nil {
		return nil, err
	}
	if updated.QualityAdjPower, err = applyDelta(claim.QualityAdjPower, deltaQA); err != nil {
		return nil, err
	}
	totalRaw, err := applyDelta(stats.TotalRawBytePower, deltaRaw)
	if err != nil {
		return nil, err
	}
	totalQA, err := applyDelta(stats.TotalQualityAdjPower, deltaQA)
	if err != nil {
		return nil, err
	}

	if err := p.claims.Set(miner, updated); err != nil {
		return nil, errors.Wrap(err, "set claim")
	}
	p.totalRawBytePower.Set(totalRaw)
	p.totalQualityAdjPower.Set(totalQA)

	logger.Debug("updated claim", "miner", miner, "raw", updated.RawBytePower, "qa", updated.QualityAdjPower)
	return updated, nil
}

// Claim returns the claim of miner, or nil if none was registered.
func (p *Power) Claim(miner thor.Address) (*Claim, error) {
	claim, exists, err := p.claims.Get(miner)
	if err != nil {
		return nil, errors.Wrap(err, "get claim")
	}
	if !exists {
		return nil, nil
	}
	return claim, nil
}

func (p *Power) MinerCount() (uint64, error) {
	return p.minerCount.Get()
}

func (p *Power) TotalRawBytePower() (uint64, error) {
	return p.totalRawBytePower.Get()
}

func (p *Power) TotalQualityAdjPower() (uint64, error) {
	return p.totalQualityAdjPower.Get()
}

// Stats returns all aggregates at once.
func (p *Power) Stats() (*Stats, error) {
	count, err := p.minerCount.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get miner count")
	}
	raw, err := p.totalRawBytePower.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get total raw byte power")
	}
	qa, err := p.totalQualityAdjPower.Get()
	if err != nil {
		return nil, errors.Wrap(err, "get total quality adjusted power")
	}
	return &Stats{
		MinerCount:           count,
		TotalRawBytePower:    raw,
		TotalQualityAdjPower: qa,
	}, nil
}
