// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package miners

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/api/restutil"
	"github.com/vechain/powerledger/builtin"
	"github.com/vechain/powerledger/builtin/minerid"
	"github.com/vechain/powerledger/chain"
)

type Miners struct {
	repo *chain.Repository
}

func New(repo *chain.Repository) *Miners {
	return &Miners{repo}
}

func (m *Miners) handleGetMiner(w http.ResponseWriter, req *http.Request) error {
	addr, err := restutil.ParseAddress(mux.Vars(req)["address"], "address")
	if err != nil {
		return err
	}

	st := m.repo.NewState()
	info, err := builtin.Miner.WithState(st).Get(addr)
	if err != nil {
		return err
	}
	if info == nil {
		return restutil.NotFound(errors.New("miner not found"))
	}
	claim, err := builtin.Power.WithState(st).Claim(addr)
	if err != nil {
		return err
	}
	index, _ := minerid.Recover(addr)
	return restutil.WriteJSON(w, convertMiner(addr, index, info, claim))
}

func (m *Miners) handleGetIndex(w http.ResponseWriter, _ *http.Request) error {
	index, err := builtin.Miner.WithState(m.repo.NewState()).Index()
	if err != nil {
		return err
	}
	return restutil.WriteJSON(w, &Index{index})
}

func (m *Miners) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	// registered first so that "index" is not taken as an address
	sub.Path("/index").
		Methods(http.MethodGet).
		Name("GET /miners/index").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleGetIndex))
	sub.Path("/{address}").
		Methods(http.MethodGet).
		Name("GET /miners/{address}").
		HandlerFunc(restutil.WrapHandlerFunc(m.handleGetMiner))
}
