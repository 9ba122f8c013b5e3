// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/powerledger/api/restutil"
	"github.com/vechain/powerledger/chain"
)

type Blocks struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Blocks {
	return &Blocks{repo}
}

func (b *Blocks) handleGetBest(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, b.repo.BestBlockSummary())
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/best").
		Methods(http.MethodGet).
		Name("GET /blocks/best").
		HandlerFunc(restutil.WrapHandlerFunc(b.handleGetBest))
}
