// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vechain/powerledger/api/events"
	"github.com/vechain/powerledger/api/miners"
	"github.com/vechain/powerledger/api/transactions"
	"github.com/vechain/powerledger/builtin/power"
	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/health"
	"github.com/vechain/powerledger/thor"
)

var ErrNotFound = errors.New("not found")

// StatusError is returned when the node answers with an unexpected status code.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http error - status code %d - %s", e.Code, e.Body)
}

// IsStatus reports whether err carries the given HTTP status code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// EventFilter narrows GET /events. Zero values are left out of the query.
type EventFilter struct {
	Name    string
	Miner   *thor.Address
	Account *thor.Address
	TxID    *thor.Bytes32
	From    *uint32
	To      *uint32
	Offset  uint64
	Limit   uint64
	Desc    bool
}

func (f *EventFilter) query() string {
	q := url.Values{}
	if f == nil {
		return ""
	}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.Miner != nil {
		q.Set("miner", f.Miner.String())
	}
	if f.Account != nil {
		q.Set("account", f.Account.String())
	}
	if f.TxID != nil {
		q.Set("txID", f.TxID.String())
	}
	if f.From != nil {
		q.Set("from", strconv.FormatUint(uint64(*f.From), 10))
	}
	if f.To != nil {
		q.Set("to", strconv.FormatUint(uint64(*f.To), 10))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.FormatUint(f.Offset, 10))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.FormatUint(f.Limit, 10))
	}
	if f.Desc {
		q.Set("order", "desc")
	}
	return q.Encode()
}

// Client talks to the REST API of a powerd node.
type Client struct {
	url string
	c   *http.Client
}

func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

func getJSON[T any](c *Client, path, what string) (*T, error) {
	body, err := c.httpGET(c.url + path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, errors.WithMessage(err, "fetch "+what)
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, errors.Wrap(err, "unmarshal "+what)
	}
	return &v, nil
}

// GetMiner returns the miner at addr together with its claim. ErrNotFound if no such miner.
func (c *Client) GetMiner(addr thor.Address) (*miners.Miner, error) {
	return getJSON[miners.Miner](c, "/miners/"+addr.String(), "miner")
}

// GetMinerIndex returns the index of the most recently created miner.
func (c *Client) GetMinerIndex() (uint32, error) {
	idx, err := getJSON[miners.Index](c, "/miners/index", "miner index")
	if err != nil {
		return 0, err
	}
	return idx.Index, nil
}

func (c *Client) GetClaim(addr thor.Address) (*power.Claim, error) {
	return getJSON[power.Claim](c, "/power/claims/"+addr.String(), "claim")
}

func (c *Client) GetStats() (*power.Stats, error) {
	return getJSON[power.Stats](c, "/power/stats", "power stats")
}

func (c *Client) GetBestBlock() (*chain.BlockSummary, error) {
	return getJSON[chain.BlockSummary](c, "/blocks/best", "best block")
}

// GetPendingTransaction returns a tx still waiting in the pool. ErrNotFound once packed or dropped.
func (c *Client) GetPendingTransaction(id thor.Bytes32) (*transactions.Transaction, error) {
	return getJSON[transactions.Transaction](c, "/transactions/"+id.String(), "transaction")
}

// SendTransaction submits an RLP encoded, hex formatted transaction.
func (c *Client) SendTransaction(raw *transactions.RawTx) (*transactions.TxID, error) {
	body, err := c.httpPOST(c.url+"/transactions", raw)
	if err != nil {
		return nil, errors.WithMessage(err, "send transaction")
	}
	var id transactions.TxID
	if err := json.Unmarshal(body, &id); err != nil {
		return nil, errors.Wrap(err, "unmarshal send transaction result")
	}
	return &id, nil
}

func (c *Client) FilterEvents(filter *EventFilter) ([]events.FilteredEvent, error) {
	path := "/events"
	if q := filter.query(); q != "" {
		path += "?" + q
	}
	evs, err := getJSON[[]events.FilteredEvent](c, path, "events")
	if err != nil {
		return nil, err
	}
	return *evs, nil
}

// Health returns the node status. An unhealthy node answers 503 with the same body,
// so that is not an error here.
func (c *Client) Health() (*health.Status, error) {
	body, status, err := c.rawHTTPRequest(http.MethodGet, c.url+"/node/health", nil)
	if err != nil {
		return nil, errors.WithMessage(err, "fetch health")
	}
	if status != http.StatusOK && status != http.StatusServiceUnavailable {
		return nil, &StatusError{Code: status, Body: string(body)}
	}
	var st health.Status
	if err := json.Unmarshal(body, &st); err != nil {
		return nil, errors.Wrap(err, "unmarshal health")
	}
	return &st, nil
}
