// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/vechain/powerledger/api/restutil"
	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/log"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	pingPeriod = 20 * time.Second
	pongWait   = pingPeriod * 3 / 2
	writeWait  = 10 * time.Second
)

type Subscriptions struct {
	repo     *chain.Repository
	upgrader *websocket.Upgrader
	done     chan struct{}
}

// New creates the subscriptions endpoints. Origins are matched case-insensitively, "*" allows any.
func New(repo *chain.Repository, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		repo: repo,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || strings.EqualFold(allowed, origin) {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// Close terminates all open streams.
func (s *Subscriptions) Close() {
	close(s.done)
}

func (s *Subscriptions) handleSubscribeBest(w http.ResponseWriter, req *http.Request) error {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader has already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	defer conn.Close()

	ch := make(chan *chain.BlockSummary, 8)
	sub := s.repo.SubscribeBestBlock(ch)
	if sub == nil { // repository closed
		s.closeConn(conn)
		return nil
	}
	defer sub.Unsubscribe()

	// the reader drains control frames and notices the peer going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	// the current best block is sent first
	if err := s.write(conn, s.repo.BestBlockSummary()); err != nil {
		return nil
	}
	for {
		select {
		case summary := <-ch:
			if err := s.write(conn, summary); err != nil {
				logger.Debug("write failed", "err", err)
				return nil
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return nil
			}
		case err := <-sub.Err():
			if err != nil {
				logger.Debug("subscription failed", "err", err)
			}
			s.closeConn(conn)
			return nil
		case <-s.done:
			s.closeConn(conn)
			return nil
		case <-closed:
			return nil
		}
	}
}

func (s *Subscriptions) write(conn *websocket.Conn, summary *chain.BlockSummary) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(summary)
}

func (s *Subscriptions) closeConn(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/best").
		Methods(http.MethodGet).
		Name("WS /subscriptions/best").
		HandlerFunc(restutil.WrapHandlerFunc(s.handleSubscribeBest))
}
