// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package power

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/api/restutil"
	"github.com/vechain/powerledger/builtin"
	"github.com/vechain/powerledger/chain"
)

type Power struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Power {
	return &Power{repo}
}

func (p *Power) handleGetClaim(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}
	claim, err := builtin.Power.WithState(p.repo.NewState()).Claim(addr)
	if err != nil {
		return err
	}
	if claim == nil {
		return restutil.NotFound(errors.New("claim not found"))
	}
	return restutil.WriteJSON(w, claim)
}

func (p *Power) handleGetStats(w http.ResponseWriter, _ *http.Request) error {
	stats, err := builtin.Power.WithState(p.repo.NewState()).Stats()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, stats)
}

func (p *Power) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/claims/{address}").
		Methods(http.MethodGet).
		Name("GET /power/claims/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetClaim))
	sub.Path("/stats").
		Methods(http.MethodGet).
		Name("GET /power/stats").
		HandlerFunc(restutil.WrapHandlerFunc(p.handleGetStats))
}
