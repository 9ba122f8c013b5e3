// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import "github.com/vechain/powerledger/thor"

// Receipt represents the results of a transaction.
type Receipt struct {
	TxID   thor.Bytes32
	Origin thor.Address
	// Reverted is set when a clause failed; no event of the tx is kept then.
	Reverted bool
	// which clause caused tx failure
	BadClauseIndex int
	Error          string
	// one output per clause, none when reverted
	Outputs []*Output
}

// Output is the result of one clause.
type Output struct {
	Events Events
}

// Receipts slice of receipts.
type Receipts []*Receipt
