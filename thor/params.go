// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

// Constants of the chain.
const (
	BlockInterval uint64 = 10 // time interval between two consecutive blocks.

	// WorkerKeyChangeDelay is the number of blocks a scheduled worker key change
	// waits before it can be confirmed.
	WorkerKeyChangeDelay uint32 = 5

	// MaxBlockRefAhead is how far past the best block a pooled tx may defer itself (5 minutes).
	MaxBlockRefAhead = uint32(5 * 60 / BlockInterval)
)

// Limits enforced on transactions before they reach the pool.
const (
	MaxTxSize       = 64 * 1024
	MaxClausesPerTx = 16
)
