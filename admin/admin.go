// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/api/restutil"
	"github.com/vechain/powerledger/log"
	"github.com/vechain/powerledger/thor"
	"github.com/vechain/powerledger/txpool"
)

type logLevelRequest struct {
	Level string `json:"level"`
}

type logLevelResponse struct {
	CurrentLevel string `json:"currentLevel"`
}

type poolStatus struct {
	Count int            `json:"count"`
	IDs   []thor.Bytes32 `json:"ids"`
}

var levels = map[string]slog.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
	"crit":  log.LevelCrit,
}

type Admin struct {
	logLevel *slog.LevelVar
	txPool   *txpool.TxPool
}

// New returns the admin handler: runtime log level and tx pool inspection.
func New(logLevel *slog.LevelVar, txPool *txpool.TxPool) http.Handler {
	a := &Admin{logLevel, txPool}

	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()
	sub.Path("/loglevel").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetLogLevel))
	sub.Path("/loglevel").
		Methods(http.MethodPost).
		HandlerFunc(restutil.WrapHandlerFunc(a.handlePostLogLevel))
	sub.Path("/txpool").
		Methods(http.MethodGet).
		HandlerFunc(restutil.WrapHandlerFunc(a.handleGetTxPool))

	return handlers.CompressHandler(router)
}

func (a *Admin) handleGetLogLevel(w http.ResponseWriter, _ *http.Request) error {
	return restutil.WriteJSON(w, &logLevelResponse{log.LevelString(a.logLevel.Level())})
}

func (a *Admin) handlePostLogLevel(w http.ResponseWriter, req *http.Request) error {
	var body logLevelRequest
	if err := restutil.ParseJSON(req.Body, &body); err != nil {
		return restutil.BadRequest(errors.WithMessage(err, "body"))
	}
	lvl, ok := levels[strings.ToLower(body.Level)]
	if !ok {
		return restutil.BadRequest(errors.Errorf("level: unknown %q", body.Level))
	}
	a.logLevel.Set(lvl)
	log.Info("log level changed", "level", log.LevelString(lvl))

	return restutil.WriteJSON(w, &logLevelResponse{log.LevelString(lvl)})
}

func (a *Admin) handleGetTxPool(w http.ResponseWriter, _ *http.Request) error {
	txs := a.txPool.Dump()
	status := &poolStatus{
		Count: len(txs),
		IDs:   make([]thor.Bytes32, 0, len(txs)),
	}
	for _, trx := range txs {
		status.IDs = append(status.IDs, trx.ID())
	}
	return restutil.WriteJSON(w, status)
}
