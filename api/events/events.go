// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/api/restutil"
	"github.com/vechain/powerledger/logdb"
	"github.com/vechain/powerledger/thor"
)

type FilteredEvent struct {
	Name        string          `json:"name"`
	Miner       thor.Address    `json:"miner"`
	Data        json.RawMessage `json:"data"`
	BlockNumber uint32          `json:"blockNumber"`
	BlockTime   uint64          `json:"blockTime"`
	ClauseIndex uint32          `json:"clauseIndex"`
	TxID        thor.Bytes32    `json:"txID"`
	TxOrigin    thor.Address    `json:"txOrigin"`
	Index       uint32          `json:"index"`
}

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

func parseUint(query url.Values, name string, bits int) (*uint64, error) {
	s := query.Get(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return nil, restutil.BadRequest(errors.WithMessage(err, name))
	}
	return &v, nil
}

func (e *Events) parseFilter(query url.Values) (*logdb.EventFilter, error) {
	filter := &logdb.EventFilter{
		Name:    query.Get("name"),
		Order:   logdb.ASC,
		Options: &logdb.Options{Limit: e.limit},
	}

	for _, p := range []struct {
		name string
		dst  **thor.Address
	}{{"miner", &filter.Miner}, {"account", &filter.Account}} {
		if s := query.Get(p.name); s != "" {
			addr, err := restutil.ParseAddress(s, p.name)
			if err != nil {
				return nil, err
			}
			*p.dst = &addr
		}
	}
	if s := query.Get("txID"); s != "" {
		id, err := thor.ParseBytes32(s)
		if err != nil {
			return nil, restutil.BadRequest(errors.WithMessage(err, "txID"))
		}
		filter.TxID = &id
	}

	from, err := parseUint(query, "from", 32)
	if err != nil {
		return nil, err
	}
	to, err := parseUint(query, "to", 32)
	if err != nil {
		return nil, err
	}
	if from != nil || to != nil {
		filter.Range = &logdb.Range{}
		if from != nil {
			filter.Range.From = uint32(*from)
		}
		if to != nil {
			if *to < uint64(filter.Range.From) {
				return nil, restutil.BadRequest(errors.New("to must be greater than or equal to from"))
			}
			filter.Range.To = uint32(*to)
		}
	}

	offset, err := parseUint(query, "offset", 63)
	if err != nil {
		return nil, err
	}
	if offset != nil {
		filter.Options.Offset = *offset
	}
	limit, err := parseUint(query, "limit", 64)
	if err != nil {
		return nil, err
	}
	if limit != nil {
		if *limit > e.limit {
			return nil, restutil.Forbidden(fmt.Errorf("limit exceeds the maximum allowed value of %d", e.limit))
		}
		filter.Options.Limit = *limit
	}

	switch order := query.Get("order"); order {
	case "", "asc":
	case "desc":
		filter.Order = logdb.DESC
	default:
		return nil, restutil.BadRequest(fmt.Errorf("order: unknown value %q", order))
	}
	return filter, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	filter, err := e.parseFilter(req.URL.Query())
	if err != nil {
		return err
	}
	events, err := e.db.FilterEvents(req.Context(), filter)
	if err != nil {
		return err
	}

	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = &FilteredEvent{
			Name:        ev.Name,
			Miner:       ev.Miner,
			Data:        ev.Data,
			BlockNumber: ev.BlockNumber,
			BlockTime:   ev.BlockTime,
			ClauseIndex: ev.ClauseIndex,
			TxID:        ev.TxID,
			TxOrigin:    ev.TxOrigin,
			Index:       ev.Index,
		}
	}
	return restutil.WriteJSON(w, fes)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(restutil.WrapHandlerFunc(e.handleFilter))
}
