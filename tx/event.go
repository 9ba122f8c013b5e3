// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/vechain/powerledger/thor"

// Event is a domain event recorded by a built-in contract during clause execution.
type Event interface {
	// Name is the stable event name, e.g. "MinerCreated".
	Name() string
	// Miner is the miner the event is about.
	Miner() thor.Address
	// Account is the principal the event carries (new owner, new worker, ...),
	// nil when the event has none.
	Account() *thor.Address
}

// Events a slice of events.
type Events []Event
