// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/powerledger/api/restutil"
	"github.com/vechain/powerledger/health"
)

type Node struct {
	health *health.Health
}

func New(health *health.Health) *Node {
	return &Node{health}
}

// handleHealth responds 503 with the same body when the node is unhealthy.
func (n *Node) handleHealth(w http.ResponseWriter, _ *http.Request) error {
	status := n.health.Status()
	if !status.Healthy {
		w.Header().Set("Content-Type", restutil.JSONContentType)
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return restutil.WriteJSON(w, status)
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/health").
		Methods(http.MethodGet).
		Name("GET /node/health").
		HandlerFunc(restutil.WrapHandlerFunc(n.handleHealth))
}
