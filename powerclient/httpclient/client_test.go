// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/powerledger/api/events"
	"github.com/vechain/powerledger/api/miners"
	"github.com/vechain/powerledger/api/transactions"
	"github.com/vechain/powerledger/builtin/power"
	"github.com/vechain/powerledger/chain"
	"github.com/vechain/powerledger/thor"
)

func serveJSON(t *testing.T, path string, status int, v any) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, path, r.URL.Path)
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestClient_GetMiner(t *testing.T) {
	addr := thor.Address{0x01}
	expected := &miners.Miner{
		Address:     addr,
		Index:       1,
		Owner:       thor.Address{0x02},
		Worker:      thor.Address{0x03},
		Controllers: []thor.Address{},
		PeerID:      []byte{0xaa},
		Claim:       &power.Claim{RawBytePower: 10, QualityAdjPower: 20},
	}

	ts := serveJSON(t, "/miners/"+addr.String(), http.StatusOK, expected)
	miner, err := New(ts.URL).GetMiner(addr)

	require.NoError(t, err)
	assert.Equal(t, expected, miner)
}

func TestClient_NotFound(t *testing.T) {
	addr := thor.Address{0x01}
	ts := serveJSON(t, "/power/claims/"+addr.String(), http.StatusNotFound, "claim not found")

	claim, err := New(ts.URL).GetClaim(addr)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, claim)
}

func TestClient_StatusError(t *testing.T) {
	ts := serveJSON(t, "/power/stats", http.StatusInternalServerError, "boom")

	_, err := New(ts.URL).GetStats()
	require.Error(t, err)
	assert.True(t, IsStatus(err, http.StatusInternalServerError))
	assert.False(t, IsStatus(err, http.StatusNotFound))
}

func TestClient_Getters(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		response any
		call     func(c *Client) (any, error)
	}{
		{
			"index", "/miners/index", &miners.Index{Index: 3},
			func(c *Client) (any, error) { return c.GetMinerIndex() },
		},
		{
			"claim", "/power/claims/" + thor.Address{0x05}.String(), &power.Claim{RawBytePower: 1, QualityAdjPower: 2},
			func(c *Client) (any, error) { return c.GetClaim(thor.Address{0x05}) },
		},
		{
			"stats", "/power/stats", &power.Stats{MinerCount: 2, TotalRawBytePower: 3, TotalQualityAdjPower: 4},
			func(c *Client) (any, error) { return c.GetStats() },
		},
		{
			"best", "/blocks/best", &chain.BlockSummary{Number: 9, Timestamp: 100, TxCount: 2, Reverted: 1},
			func(c *Client) (any, error) { return c.GetBestBlock() },
		},
		{
			"pending", "/transactions/" + thor.Bytes32{0x07}.String(), &transactions.Transaction{ID: thor.Bytes32{0x07}, Nonce: 1, Clauses: []transactions.Clause{}},
			func(c *Client) (any, error) { return c.GetPendingTransaction(thor.Bytes32{0x07}) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := serveJSON(t, tt.path, http.StatusOK, tt.response)
			res, err := tt.call(New(ts.URL + "/"))
			require.NoError(t, err)
			if idx, ok := res.(uint32); ok {
				assert.Equal(t, tt.response.(*miners.Index).Index, idx)
				return
			}
			assert.Equal(t, tt.response, res)
		})
	}
}

func TestClient_SendTransaction(t *testing.T) {
	raw := &transactions.RawTx{Raw: "0x01"}
	expected := &transactions.TxID{ID: thor.Bytes32{0x01}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transactions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"raw":"0x01"}`, string(body))

		json.NewEncoder(w).Encode(expected)
	}))
	defer ts.Close()

	id, err := New(ts.URL).SendTransaction(raw)
	require.NoError(t, err)
	assert.Equal(t, expected, id)
}

func TestClient_FilterEvents(t *testing.T) {
	miner := thor.Address{0x01}
	from := uint32(2)
	expected := []events.FilteredEvent{{
		Name:        "ClaimUpdated",
		Miner:       miner,
		Data:        json.RawMessage(`{"rawBytePower":1}`),
		BlockNumber: 3,
	}}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/events", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "ClaimUpdated", q.Get("name"))
		assert.Equal(t, miner.String(), q.Get("miner"))
		assert.Equal(t, "2", q.Get("from"))
		assert.Equal(t, "", q.Get("to"))
		assert.Equal(t, "desc", q.Get("order"))
		assert.Equal(t, "5", q.Get("limit"))

		json.NewEncoder(w).Encode(expected)
	}))
	defer ts.Close()

	evs, err := New(ts.URL).FilterEvents(&EventFilter{
		Name:  "ClaimUpdated",
		Miner: &miner,
		From:  &from,
		Limit: 5,
		Desc:  true,
	})
	require.NoError(t, err)
	assert.Equal(t, expected, evs)
}

func TestClient_Health(t *testing.T) {
	number := uint32(4)

	for _, status := range []int{http.StatusOK, http.StatusServiceUnavailable} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/node/health", r.URL.Path)
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{
				"healthy":        status == http.StatusOK,
				"blockIngestion": map[string]any{"number": number},
			})
		}))

		st, err := New(ts.URL).Health()
		ts.Close()
		require.NoError(t, err)
		assert.Equal(t, status == http.StatusOK, st.Healthy)
		require.NotNil(t, st.BlockIngestion.Number)
		assert.Equal(t, number, *st.BlockIngestion.Number)
	}

	ts := serveJSON(t, "/node/health", http.StatusNotFound, "")
	_, err := New(ts.URL).Health()
	assert.True(t, IsStatus(err, http.StatusNotFound))
}
