// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solo

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/logdb"
	"github.com/vechain/powerledger/metrics"
	"github.com/vechain/powerledger/runtime"
	"github.com/vechain/powerledger/state"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
	"github.com/vechain/powerledger/txpool"
)

var (
	logger = log.WithContext("pkg", "solo")

	metricBlockCount = metrics.LazyLoadCounter("solo_blocks_count")
	metricBlockTxs   = metrics.LazyLoadHistogram("solo_block_txs", metrics.BucketBlockTxs)
	metricTxCount    = metrics.LazyLoadCounterVec("solo_txs_count", []string{"status"})
)

type Options struct {
	BlockInterval  uint64
	MaxTxsPerBlock int
	SkipLogs       bool
	OnDemand       bool
}

// Solo mode is the standalone client without p2p server.
// It is the only writer of state, so transactions execute one at a time in pool order.
type Solo struct {
	repo    *chain.Repository
	logDB   *logdb.LogDB
	txPool  *txpool.TxPool
	options Options
}

// New returns Solo instance
func New(
	repo *chain.Repository,
	logDB *logdb.LogDB,
	txPool *txpool.TxPool,
	options Options,
) *Solo {
	if options.BlockInterval == 0 {
		options.BlockInterval = thor.BlockInterval
	}
	if options.MaxTxsPerBlock <= 0 {
		options.MaxTxsPerBlock = 1000
	}
	return &Solo{
		repo:    repo,
		logDB:   logDB,
		txPool:  txPool,
		options: options,
	}
}

// Run packs blocks until ctx is done.
func (s *Solo) Run(ctx context.Context) error {
	logger.Info("prepared to pack block", "interval", s.options.BlockInterval, "onDemand", s.options.OnDemand)

	if s.options.OnDemand {
		s.onDemandLoop(ctx)
	} else {
		s.loop(ctx)
	}
	return nil
}

func (s *Solo) loop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping interval packing service......")
			return
		case now := <-ticker.C:
			if uint64(now.Unix())%s.options.BlockInterval == 0 {
				s.tryPack(uint64(now.Unix()))
			}
		}
	}
}

func (s *Solo) onDemandLoop(ctx context.Context) {
	ch := make(chan *txpool.TxEvent, 10)
	sub := s.txPool.SubscribeTxEvent(ch)
	if sub == nil { // pool closed
		return
	}
	defer sub.Unsubscribe()

	// txs queued before the subscription would wait for the next arrival
	if s.txPool.Len() > 0 {
		s.tryPack(uint64(time.Now().Unix()))
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping on-demand packing service......")
			return
		case <-sub.Err():
			return
		case <-ch:
			s.tryPack(uint64(time.Now().Unix()))
		}
	}
}

func (s *Solo) tryPack(now uint64) {
	if _, err := s.Pack(now); err != nil {
		logger.Error("failed to pack block", "err", err)
	}
}

// Pack executes pooled transactions on top of the best block and commits the result as the new best block.
// Transactions that fail validation or were packed before are dropped from the pool; reverted ones are
// included with their receipt. Transactions whose block ref is ahead of the new block stay pooled.
// On a storage error nothing is committed and the pool is left unchanged.
func (s *Solo) Pack(now uint64) (*chain.BlockSummary, error) {
	best := s.repo.BestBlockSummary()
	if now <= best.Timestamp {
		now = best.Timestamp + 1
	}
	number := best.Number + 1

	st := s.repo.NewState()
	rt := runtime.New(st, number, now)

	var (
		receipts tx.Receipts
		included []thor.Bytes32
		dropped  []thor.Bytes32
		reverted uint32
	)
	for _, trx := range s.txPool.Executables(s.options.MaxTxsPerBlock) {
		// deferred txs wait in the pool for the block they refer to
		if trx.BlockRef() > number {
			continue
		}
		packed, err := s.repo.HasTransaction(trx.ID())
		if err != nil {
			return nil, err
		}
		if packed {
			logger.Debug("drop packed tx", "id", trx.ID())
			metricTxCount().AddWithLabel(1, map[string]string{"status": "known"})
			dropped = append(dropped, trx.ID())
			continue
		}

		receipt, err := rt.ExecuteTransaction(trx)
		if err != nil {
			var stateErr *state.Error
			if errors.As(err, &stateErr) {
				return nil, errors.Wrap(err, "execute tx")
			}
			logger.Debug("drop invalid tx", "id", trx.ID(), "err", err)
			metricTxCount().AddWithLabel(1, map[string]string{"status": "invalid"})
			dropped = append(dropped, trx.ID())
			continue
		}
		receipts = append(receipts, receipt)
		included = append(included, trx.ID())
		if receipt.Reverted {
			reverted++
			metricTxCount().AddWithLabel(1, map[string]string{"status": "reverted"})
		} else {
			metricTxCount().AddWithLabel(1, map[string]string{"status": "success"})
		}
	}

	if err := st.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	// state is already committed, so a log failure must not stop the block
	if !s.options.SkipLogs {
		if err := s.logDB.Write(number, now, receipts); err != nil {
			logger.Error("failed to write logs", "number", number, "err", err)
		}
	}

	summary := &chain.BlockSummary{
		Number:    number,
		Timestamp: now,
		TxCount:   uint32(len(receipts)),
		Reverted:  reverted,
	}
	if err := s.repo.AddBlock(summary, included); err != nil {
		return nil, err
	}
	s.txPool.Remove(append(included, dropped...)...)
	metricBlockCount().Add(1)
	metricBlockTxs().Observe(int64(len(receipts)))

	logger.Info("📦 new block packed",
		"number", number,
		"txs", len(receipts),
		"reverted", reverted,
	)
	return summary, nil
}
