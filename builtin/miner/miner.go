// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miner

import (
	"math"

	"github.com/pkg/errors"

	"github.com/vechain/powerledger/builtin/minerid"
	"github.com/vechain/powerledger/builtin/power"
	"github.com/vechain/powerledger/builtin/reverts"
	"github.com/vechain/powerledger/builtin/solidity"
	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
)

var logger = log.WithContext("pkg", "miner")

var slotInfos = thor.BytesToBytes32([]byte("miners"))

// Miner implements the identity registry of the `Miner` contract.
//
// Every mutating method validates all preconditions before its first write,
// so a returned error always leaves storage untouched.
type Miner struct {
	sctx           *solidity.Context
	power          *power.Power
	infos          *solidity.Mapping[thor.Address, *Info]
	index          *indexAllocator
	workerKeyDelay *solidity.ConfigVariable
}

// New create a new instance.
// Claims of created miners are registered with pwr.
func New(addr thor.Address, state *state.State, pwr *power.Power) *Miner {
	sctx := solidity.NewContext(addr, state)
	return &Miner{
		sctx:           sctx,
		power:          pwr,
		infos:          solidity.NewMapping[thor.Address, *Info](sctx, slotInfos),
		index:          newIndexAllocator(sctx),
		workerKeyDelay: solidity.NewConfigVariable("worker-key-delay", thor.WorkerKeyChangeDelay),
	}
}

// WorkerKeyDelay returns the number of blocks a worker change waits before confirmation.
func (m *Miner) WorkerKeyDelay() uint32 {
	m.workerKeyDelay.Override(m.sctx)
	return m.workerKeyDelay.Get()
}

// SetWorkerKeyDelay persists a custom worker key delay, used at genesis.
func (m *Miner) SetWorkerKeyDelay(delay uint32) {
	m.workerKeyDelay.Store(m.sctx, delay)
}

// Index returns the last allocated miner index.
func (m *Miner) Index() (uint32, error) {
	return m.index.Current()
}

// Get returns the info of miner, or nil if it does not exist.
func (m *Miner) Get(miner thor.Address) (*Info, error) {
	info, exists, err := m.infos.Get(miner)
	if err != nil {
		return nil, errors.Wrap(err, "get miner")
	}
	if !exists {
		return nil, nil
	}
	return info, nil
}

func (m *Miner) mustGet(miner thor.Address) (*Info, error) {
	info, err := m.Get(miner)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, ErrNoSuchMiner
	}
	return info, nil
}

func (m *Miner) set(miner thor.Address, info *Info) error {
	if err := m.infos.Set(miner, info); err != nil {
		return errors.Wrap(err, "set miner")
	}
	return nil
}

// Create allocates a new miner, registers its claim and stores its info.
// Any signer may create a miner on behalf of any owner and worker; the signer is not recorded.
func (m *Miner) Create(env Env, owner, worker thor.Address, peerID []byte) (thor.Address, error) {
	index, err := m.index.peek()
	if err != nil {
		return thor.Address{}, err
	}
	addr := minerid.Derive(index)

	if _, err := m.power.RegisterNewMiner(addr); err != nil {
		if reverts.IsRevertErr(err) {
			logger.Debug("claim registration refused", "miner", addr, "error", err)
			return thor.Address{}, ErrClaimsNotSet
		}
		return thor.Address{}, err
	}
	m.index.commit(index)

	info := &Info{
		Owner:  owner,
		Worker: worker,
		PeerID: append([]byte(nil), peerID...),
	}
	if err := m.set(addr, info); err != nil {
		return thor.Address{}, err
	}

	env.Log(&MinerCreated{MinerAddr: addr, Owner: owner})
	logger.Debug("created miner", "miner", addr, "index", index, "owner", owner, "worker", worker)
	return addr, nil
}

// ChangeWorkerAddress replaces the controllers and schedules a worker change.
// Requesting the current worker clears any scheduled change.
func (m *Miner) ChangeWorkerAddress(env Env, miner, newWorker thor.Address, controllers []thor.Address) error {
	info, err := m.mustGet(miner)
	if err != nil {
		return err
	}
	if !CanManageKeys(env.Signer(), info) {
		return ErrInvalidSigner
	}

	info.Controllers = append([]thor.Address(nil), controllers...)
	if newWorker != info.Worker {
		info.PendingWorker = &WorkerKeyChange{
			NewWorker:   newWorker,
			EffectiveAt: effectiveAt(env.Number(), m.WorkerKeyDelay()),
		}
	} else {
		info.PendingWorker = nil
	}
	if err := m.set(miner, info); err != nil {
		return err
	}

	env.Log(&WorkerChangeRequested{
		MinerAddr:      miner,
		NewWorker:      newWorker,
		NewControllers: info.Controllers,
	})
	return nil
}

// effectiveAt saturates at the last representable block number.
func effectiveAt(number, delay uint32) uint32 {
	if delay > math.MaxUint32-number {
		return math.MaxUint32
	}
	return number + delay
}

// ConfirmUpdateWorkerKey applies a scheduled worker change once its block is reached.
// Any signer may confirm.
func (m *Miner) ConfirmUpdateWorkerKey(env Env, miner thor.Address) error {
	info, err := m.mustGet(miner)
	if err != nil {
		return err
	}
	if info.PendingWorker == nil {
		return ErrNoRequest
	}
	if info.PendingWorker.EffectiveAt > env.Number() {
		return ErrIneffectiveRequest
	}

	info.Worker = info.PendingWorker.NewWorker
	info.PendingWorker = nil
	if err := m.set(miner, info); err != nil {
		return err
	}

	env.Log(&WorkerChanged{MinerAddr: miner, NewWorker: info.Worker})
	return nil
}

// ChangePeerID overwrites the peer id. Owner, worker and controllers may call it.
func (m *Miner) ChangePeerID(env Env, miner thor.Address, peerID []byte) error {
	info, err := m.mustGet(miner)
	if err != nil {
		return err
	}
	if !CanUpdatePeerID(env.Signer(), info) {
		return ErrInvalidSigner
	}

	info.PeerID = append([]byte(nil), peerID...)
	if err := m.set(miner, info); err != nil {
		return err
	}

	env.Log(&PeerIDChanged{MinerAddr: miner, NewPeerID: info.PeerID})
	return nil
}

// ChangeOwnerAddress drives the two-step ownership transfer.
//
// The owner proposes a new owner, or revokes a pending proposal by proposing itself.
// The proposed owner then confirms by calling with its own address.
func (m *Miner) ChangeOwnerAddress(env Env, miner, newOwner thor.Address) error {
	info, err := m.mustGet(miner)
	if err != nil {
		return err
	}
	signer := env.Signer()

	var ev *OwnerChangeRequested
	switch {
	case CanConfirmOwner(signer, info, newOwner):
		info.Owner = newOwner
		info.PendingOwner = nil
		if err := m.set(miner, info); err != nil {
			return err
		}
		env.Log(&OwnerChanged{MinerAddr: miner, NewOwner: newOwner})
		logger.Debug("owner changed", "miner", miner, "owner", newOwner)
		return nil
	case !CanProposeOwner(signer, info):
		return ErrInvalidSigner
	case newOwner == info.Owner && info.PendingOwner == nil:
		return ErrIneffectiveRequest
	case newOwner == info.Owner:
		// revoke
		info.PendingOwner = nil
		ev = &OwnerChangeRequested{MinerAddr: miner, NewOwner: info.Owner}
	default:
		proposed := newOwner
		info.PendingOwner = &proposed
		ev = &OwnerChangeRequested{MinerAddr: miner, NewOwner: newOwner}
	}

	if err := m.set(miner, info); err != nil {
		return err
	}
	env.Log(ev)
	return nil
}
