// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/powerledger/chain"
)

var ErrUnexpectedMsg = errors.New("unexpected message")

// EventWrapper carries either a message or the error that ended the stream.
type EventWrapper[T any] struct {
	Data  T
	Error error
}

// Subscription is an open stream. EventChan is closed after the last message.
type Subscription[T any] struct {
	EventChan   <-chan EventWrapper[T]
	Unsubscribe func() error
}

type Client struct {
	host   string
	scheme string
}

// NewClient accepts http(s) or ws(s) urls.
func NewClient(rawURL string) (*Client, error) {
	var host, scheme string
	switch {
	case strings.HasPrefix(rawURL, "https://"), strings.HasPrefix(rawURL, "wss://"):
		host = strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "wss://")
		scheme = "wss"
	case strings.HasPrefix(rawURL, "http://"), strings.HasPrefix(rawURL, "ws://"):
		host = strings.TrimPrefix(strings.TrimPrefix(rawURL, "http://"), "ws://")
		scheme = "ws"
	default:
		return nil, errors.New("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// SubscribeBestBlocks streams best block summaries, starting with the current one.
func (c *Client) SubscribeBestBlocks() (*Subscription[*chain.BlockSummary], error) {
	conn, err := c.connect("/subscriptions/best")
	if err != nil {
		return nil, errors.WithMessage(err, "connect")
	}
	return subscribe[chain.BlockSummary](conn), nil
}

func subscribe[T any](conn *websocket.Conn) *Subscription[*T] {
	ch := make(chan EventWrapper[*T])
	done := make(chan struct{})

	go func() {
		defer close(ch)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				select {
				case ch <- EventWrapper[*T]{Error: errors.Wrap(ErrUnexpectedMsg, err.Error())}:
				case <-done:
				}
				return
			}
			select {
			case ch <- EventWrapper[*T]{Data: &data}:
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return &Subscription[*T]{
		EventChan: ch,
		Unsubscribe: func() error {
			var err error
			once.Do(func() {
				close(done)
				err = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			})
			return err
		},
	}
}

func (c *Client) connect(endpoint string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme: c.scheme,
		Host:   c.host,
		Path:   endpoint,
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
