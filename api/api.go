// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/powerledger/api/blocks"
	"github.com/vechain/powerledger/api/events"
	"github.com/vechain/powerledger/api/miners"
	"github.com/vechain/powerledger/api/node"
	"github.com/vechain/powerledger/api/power"
	"github.com/vechain/powerledger/api/subscriptions"
	"github.com/vechain/powerledger/api/transactions"
	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/health"
	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/logdb"
	"github.com/vechain/powerledger/txpool"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins  string
	LogsLimit       uint64
	EnableReqLogger bool
	EnableMetrics   bool
	// Health enables GET /node/health when set.
	Health *health.Health
}

// New return api router and a func to close streaming endpoints.
func New(
	repo *chain.Repository,
	txPool *txpool.TxPool,
	logDB *logdb.LogDB,
	opts Options,
) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	miners.New(repo).
		Mount(router, "/miners")
	power.New(repo).
		Mount(router, "/power")
	transactions.New(txPool).
		Mount(router, "/transactions")
	events.New(logDB, opts.LogsLimit).
		Mount(router, "/events")
	blocks.New(repo).
		Mount(router, "/blocks")
	if opts.Health != nil {
		node.New(opts.Health).
			Mount(router, "/node")
	}
	subs := subscriptions.New(repo, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	if opts.EnableReqLogger {
		handler = RequestLoggerHandler(handler, logger)
	}

	return handler.ServeHTTP, subs.Close
}
