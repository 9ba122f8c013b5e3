// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

// Event represents tx.Event that can be stored in db.
type Event struct {
	BlockNumber uint32
	Index       uint32
	BlockTime   uint64
	ClauseIndex uint32
	TxID        thor.Bytes32
	TxOrigin    thor.Address
	Name        string
	Miner       thor.Address
	// nil for events carrying no account
	Account *thor.Address
	// JSON encoded event
	Data json.RawMessage
}

// newEvent converts tx.Event to Event.
func newEvent(blockNumber uint32, blockTime uint64, index uint32, clauseIndex uint32, txID thor.Bytes32, txOrigin thor.Address, txEvent tx.Event) (*Event, error) {
	data, err := json.Marshal(txEvent)
	if err != nil {
		return nil, errors.Wrapf(err, "encode event %s", txEvent.Name())
	}
	return &Event{
		BlockNumber: blockNumber,
		Index:       index,
		BlockTime:   blockTime,
		ClauseIndex: clauseIndex,
		TxID:        txID,
		TxOrigin:    txOrigin,
		Name:        txEvent.Name(),
		Miner:       txEvent.Miner(),
		Account:     txEvent.Account(),
		Data:        data,
	}, nil
}

// Range is an inclusive block number range. To of zero means no upper bound.
type Range struct {
	From uint32
	To   uint32
}

type Options struct {
	Offset uint64
	Limit  uint64
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// EventFilter selects events. Zero valued fields do not filter.
type EventFilter struct {
	Range   *Range
	Miner   *thor.Address
	Account *thor.Address
	Name    string
	TxID    *thor.Bytes32
	Options *Options
	Order   Order
}
