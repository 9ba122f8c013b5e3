// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package chain

import (
	"sync/atomic"

	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/kv"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
)

const (
	propStoreName = "chain.props" // for property-named values such as best block
	txStoreName   = "chain.txs"   // tx id => number of the block that packed it
)

var bestBlockKey = []byte("best-block")

// BlockSummary summarizes a packed block.
type BlockSummary struct {
	Number    uint32 `json:"number"`
	Timestamp uint64 `json:"timestamp"`
	TxCount   uint32 `json:"txCount"`
	Reverted  uint32 `json:"reverted"`
}

// Repository tracks the best block on top of the state store.
//
// It's thread-safe.
type Repository struct {
	db        kv.Store
	propStore kv.Store
	txStore   kv.Store

	bestSummary atomic.Pointer[BlockSummary]
	feed        event.Feed
	scope       event.SubscriptionScope
}

// NewRepository create an instance of repository.
// A nil genesis is accepted only when the store already holds a best block.
func NewRepository(db kv.Store, genesis *BlockSummary) (*Repository, error) {
	repo := &Repository{
		db:        db,
		propStore: kv.Bucket(propStoreName).NewStore(db),
		txStore:   kv.Bucket(txStoreName).NewStore(db),
	}

	data, err := repo.propStore.Get(bestBlockKey)
	if err != nil {
		if !repo.propStore.IsNotFound(err) {
			return nil, errors.Wrap(err, "load best block")
		}
		if genesis == nil {
			return nil, errors.New("no genesis")
		}
		if genesis.Number != 0 {
			return nil, errors.New("genesis number != 0")
		}
		if err := repo.SetBestBlockSummary(genesis); err != nil {
			return nil, err
		}
		return repo, nil
	}

	var best BlockSummary
	if err := rlp.DecodeBytes(data, &best); err != nil {
		return nil, errors.Wrap(err, "decode best block")
	}
	repo.bestSummary.Store(&best)
	return repo, nil
}

// IsInitialized reports whether the store already holds a best block.
func IsInitialized(db kv.Store) (bool, error) {
	return kv.Bucket(propStoreName).NewStore(db).Has(bestBlockKey)
}

// BestBlockSummary returns the summary of the best block.
func (r *Repository) BestBlockSummary() *BlockSummary {
	return r.bestSummary.Load()
}

// SetBestBlockSummary persists summary as the best block and notifies subscribers.
func (r *Repository) SetBestBlockSummary(summary *BlockSummary) error {
	return r.AddBlock(summary, nil)
}

// AddBlock persists the ids of the txs packed into the block and the block as the new best,
// in one batch, then notifies subscribers.
func (r *Repository) AddBlock(summary *BlockSummary, txIDs []thor.Bytes32) error {
	data, err := rlp.EncodeToBytes(summary)
	if err != nil {
		return err
	}
	num, err := rlp.EncodeToBytes(summary.Number)
	if err != nil {
		return err
	}

	batch := r.db.NewBatch()
	txPutter := kv.Bucket(txStoreName).NewPutter(batch)
	for _, id := range txIDs {
		if err := txPutter.Put(id.Bytes(), num); err != nil {
			return errors.Wrap(err, "save tx")
		}
	}
	if err := kv.Bucket(propStoreName).NewPutter(batch).Put(bestBlockKey, data); err != nil {
		return errors.Wrap(err, "save best block")
	}
	if err := batch.Write(); err != nil {
		return errors.Wrap(err, "write block")
	}

	r.bestSummary.Store(summary)
	r.feed.Send(summary)
	return nil
}

// HasTransaction reports whether the tx was packed into any block.
func (r *Repository) HasTransaction(id thor.Bytes32) (bool, error) {
	has, err := r.txStore.Has(id.Bytes())
	if err != nil {
		return false, errors.Wrap(err, "lookup tx")
	}
	return has, nil
}

// SubscribeBestBlock receivers will receive the summary of every new best block.
// Sends block until received, so ch should be buffered.
func (r *Repository) SubscribeBestBlock(ch chan *BlockSummary) event.Subscription {
	return r.scope.Track(r.feed.Subscribe(ch))
}

// NewState returns a view of the committed state.
func (r *Repository) NewState() *state.State {
	return state.New(r.db)
}

// Close unsubscribes all subscribers.
func (r *Repository) Close() {
	r.scope.Close()
}
