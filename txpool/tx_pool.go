// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package txpool

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/event"

	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/metrics"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

var (
	logger = log.WithContext("pkg", "txpool")

	metricTxPoolGauge = metrics.LazyLoadGauge("txpool_current_tx_count")
	metricBadTxCount  = metrics.LazyLoadCounterVec("txpool_rejected_tx_count", []string{"reason"})
)

// Options options for tx pool.
type Options struct {
	Limit           int
	LimitPerAccount int
	MaxLifetime     time.Duration
}

// TxEvent will be posted when tx is added.
type TxEvent struct {
	Tx *tx.Transaction
}

type txObject struct {
	*tx.Transaction
	origin    thor.Address
	timeAdded time.Time
}

// TxPool maintains unprocessed transactions in arrival order.
type TxPool struct {
	repo    *chain.Repository
	options Options

	mu      sync.RWMutex
	queue   []*txObject
	all     map[thor.Bytes32]*txObject
	quota   map[thor.Address]int
	stopped bool

	ctx    context.Context
	cancel func()
	txFeed event.Feed
	scope  event.SubscriptionScope
	wg     sync.WaitGroup
}

// New create a new TxPool instance.
// Close is required to be called at end.
func New(repo *chain.Repository, options Options) *TxPool {
	ctx, cancel := context.WithCancel(context.Background())
	pool := &TxPool{
		repo:    repo,
		options: options,
		all:     make(map[thor.Bytes32]*txObject),
		quota:   make(map[thor.Address]int),
		ctx:     ctx,
		cancel:  cancel,
	}
	if options.MaxLifetime > 0 {
		pool.wg.Add(1)
		go func() {
			defer pool.wg.Done()
			pool.housekeeping()
		}()
	}
	return pool
}

func (p *TxPool) housekeeping() {
	logger.Debug("enter housekeeping")
	defer logger.Debug("leave housekeeping")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case now := <-ticker.C:
			if n := p.expire(now); n > 0 {
				logger.Debug("expired txs removed", "count", n)
			}
		}
	}
}

func (p *TxPool) expire(now time.Time) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	var expired []thor.Bytes32
	for _, obj := range p.queue {
		if now.Sub(obj.timeAdded) > p.options.MaxLifetime {
			expired = append(expired, obj.ID())
		}
	}
	return p.remove(expired...)
}

// Close cleanup inner go routines.
func (p *TxPool) Close() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	p.cancel()
	p.scope.Close()
	p.wg.Wait()
	logger.Debug("closed")
}

// SubscribeTxEvent receivers will receive a tx
func (p *TxPool) SubscribeTxEvent(ch chan *TxEvent) event.Subscription {
	return p.scope.Track(p.txFeed.Subscribe(ch))
}

// Add validates and queues a new tx.
// Txs already packed into a block, or referring to a block too far ahead of the best one, are rejected.
func (p *TxPool) Add(newTx *tx.Transaction) (err error) {
	defer func() {
		if err != nil && err != errKnownTx {
			reason := "bad"
			if IsTxRejected(err) {
				reason = "rejected"
			}
			metricBadTxCount().AddWithLabel(1, map[string]string{"reason": reason})
		}
	}()

	if err := newTx.Validate(); err != nil {
		return badTxError{err.Error()}
	}
	origin, _ := newTx.Origin()

	head := p.repo.BestBlockSummary()
	if uint64(newTx.BlockRef()) > uint64(head.Number)+uint64(thor.MaxBlockRefAhead) {
		return errOutOfSchedule
	}
	if packed, err := p.repo.HasTransaction(newTx.ID()); err != nil {
		return err
	} else if packed {
		return errPackedTx
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return errClosed
	}
	if _, ok := p.all[newTx.ID()]; ok {
		return errKnownTx
	}
	if p.options.Limit > 0 && len(p.queue) >= p.options.Limit {
		return errPoolFull
	}
	if p.options.LimitPerAccount > 0 && p.quota[origin] >= p.options.LimitPerAccount {
		return errAccountQuota
	}

	obj := &txObject{newTx, origin, time.Now()}
	p.queue = append(p.queue, obj)
	p.all[newTx.ID()] = obj
	p.quota[origin]++
	metricTxPoolGauge().Add(1)

	logger.Trace("tx added", "id", newTx.ID(), "origin", origin)
	go p.txFeed.Send(&TxEvent{newTx})
	return nil
}

// Get get tx by id.
func (p *TxPool) Get(id thor.Bytes32) *tx.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if obj, ok := p.all[id]; ok {
		return obj.Transaction
	}
	return nil
}

// Remove removes txs by id and returns how many were pooled.
func (p *TxPool) Remove(ids ...thor.Bytes32) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.remove(ids...)
}

func (p *TxPool) remove(ids ...thor.Bytes32) int {
	removed := 0
	for _, id := range ids {
		obj, ok := p.all[id]
		if !ok {
			continue
		}
		delete(p.all, id)
		if p.quota[obj.origin]--; p.quota[obj.origin] <= 0 {
			delete(p.quota, obj.origin)
		}
		removed++
	}
	if removed == 0 {
		return 0
	}

	queue := p.queue[:0]
	for _, obj := range p.queue {
		if _, ok := p.all[obj.ID()]; ok {
			queue = append(queue, obj)
		}
	}
	for i := len(queue); i < len(p.queue); i++ {
		p.queue[i] = nil
	}
	p.queue = queue
	metricTxPoolGauge().Add(-int64(removed))
	return removed
}

// Executables returns at most limit txs in arrival order. Non-positive limit means all.
func (p *TxPool) Executables(limit int) tx.Transactions {
	p.mu.RLock()
	defer p.mu.RUnlock()

	n := len(p.queue)
	if limit > 0 && limit < n {
		n = limit
	}
	txs := make(tx.Transactions, 0, n)
	for _, obj := range p.queue[:n] {
		txs = append(txs, obj.Transaction)
	}
	return txs
}

// Dump dumps all txs in the pool.
func (p *TxPool) Dump() tx.Transactions {
	return p.Executables(0)
}

// Len returns count of pooled txs.
func (p *TxPool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.queue)
}
