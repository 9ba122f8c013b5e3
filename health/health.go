// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/vechain/powerledger/chain"
)

// staleBlocks is how many block intervals may pass without a new best block.
const staleBlocks = 3

type BlockIngestion struct {
	Number    *uint32    `json:"number"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy        bool            `json:"healthy"`
	BlockIngestion *BlockIngestion `json:"blockIngestion"`
}

// Health tracks whether the packer keeps producing blocks.
type Health struct {
	lock              sync.RWMutex
	timeBetweenBlocks time.Duration
	onDemand          bool
	newBestBlock      time.Time
	bestBlockNumber   *uint32
}

func New(timeBetweenBlocks time.Duration) *Health {
	return &Health{timeBetweenBlocks: timeBetweenBlocks}
}

// NewOnDemand returns a tracker for a packer that only packs when txs arrive,
// so a quiet period never counts as unhealthy.
func NewOnDemand() *Health {
	return &Health{onDemand: true}
}

func (h *Health) NewBestBlock(number uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newBestBlock = time.Now()
	h.bestBlockNumber = &number
}

func (h *Health) Status() *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	var ingestion BlockIngestion
	healthy := h.bestBlockNumber != nil
	if healthy {
		number, ts := *h.bestBlockNumber, h.newBestBlock
		ingestion.Number, ingestion.Timestamp = &number, &ts
		if !h.onDemand {
			healthy = time.Since(h.newBestBlock) <= staleBlocks*h.timeBetweenBlocks
		}
	}

	return &Status{
		Healthy:        healthy,
		BlockIngestion: &ingestion,
	}
}

// Watch feeds the best blocks of repo until ctx is done or the repository is closed.
// The current best block counts as ingested on start.
func (h *Health) Watch(ctx context.Context, repo *chain.Repository) error {
	ch := make(chan *chain.BlockSummary, 1)
	sub := repo.SubscribeBestBlock(ch)
	if sub == nil { // repository closed
		return nil
	}
	defer sub.Unsubscribe()

	h.NewBestBlock(repo.BestBlockSummary().Number)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sub.Err():
			return nil
		case summary := <-ch:
			h.NewBestBlock(summary.Number)
		}
	}
}
