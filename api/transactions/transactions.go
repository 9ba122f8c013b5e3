// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/api/restutil"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/txpool"
)

type Transactions struct {
	pool *txpool.TxPool
}

func New(pool *txpool.TxPool) *Transactions {
	return &Transactions{pool}
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var rawTx RawTx
	if err := restutil.ParseJSON(req.Body, &rawTx); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	trx, err := rawTx.decode()
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "raw"))
	}

	if err := t.pool.Add(trx); err != nil {
		if txpool.IsBadTx(err) {
			return restutil.BadRequest(err)
		}
		if txpool.IsTxRejected(err) {
			return restutil.Forbidden(err)
		}
		// known tx is accepted silently
		if !txpool.IsErrKnownTx(err) {
			return err
		}
	}
	return restutil.WriteJSON(w, &TxID{trx.ID()})
}

func (t *Transactions) handleGetPendingTransaction(w http.ResponseWriter, req *http.Request) error {
	id, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "id"))
	}
	trx := t.pool.Get(id)
	if trx == nil {
		return restutil.NotFound(errors.New("tx not pending"))
	}
	return restutil.WriteJSON(w, convertTransaction(trx))
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}").
		HandlerFunc(restutil.WrapHandlerFunc(t.handleGetPendingTransaction))
}
