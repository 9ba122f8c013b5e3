// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/tx"
)

// RawTx is the hex encoded RLP of a signed tx.
type RawTx struct {
	Raw string `json:"raw"`
}

func (rtx *RawTx) decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(rtx.Raw)
	if err != nil {
		return nil, err
	}
	var trx *tx.Transaction
	if err := rlp.DecodeBytes(data, &trx); err != nil {
		return nil, err
	}
	return trx, nil
}

type TxID struct {
	ID thor.Bytes32 `json:"id"`
}

type Clause struct {
	To     thor.Address  `json:"to"`
	Method string        `json:"method"`
	Data   hexutil.Bytes `json:"data"`
}

// Transaction is a pending tx.
type Transaction struct {
	ID       thor.Bytes32 `json:"id"`
	Origin   thor.Address `json:"origin"`
	Nonce    uint64       `json:"nonce"`
	BlockRef uint32       `json:"blockRef"`
	Size     uint64       `json:"size"`
	Clauses  []Clause     `json:"clauses"`
}

func convertTransaction(trx *tx.Transaction) *Transaction {
	origin, _ := trx.Origin()
	t := &Transaction{
		ID:       trx.ID(),
		Origin:   origin,
		Nonce:    trx.Nonce(),
		BlockRef: trx.BlockRef(),
		Size:     trx.Size(),
		Clauses:  make([]Clause, 0, len(trx.Clauses())),
	}
	for _, c := range trx.Clauses() {
		t.Clauses = append(t.Clauses, Clause{c.To(), c.Method(), c.Data()})
	}
	return t
}
