package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Params []interface{}   `json:"params"`
}

func newRPCServer(t *testing.T, handle func(req rpcRequest) (interface{}, *rpcError)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		result, rpcErr := handle(req)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func TestClientStatus(t *testing.T) {
	server := newRPCServer(t, func(req rpcRequest) (interface{}, *rpcError) {
		assert.Equal(t, "status", req.Method)
		return map[string]interface{}{
			"chain_id": "mainnet",
			"version":  map[string]string{"version": "1.35.0", "build": "crates-0.15.0"},
			"sync_info": map[string]interface{}{
				"latest_block_hash":   "GJ8Ht",
				"latest_block_height": 102030405,
				"latest_block_time":   "2023-10-01T00:00:00.000000000Z",
				"syncing":             false,
			},
		}, nil
	})

	client, err := NewClient(context.Background(), server.URL)
	require.NoError(t, err)
	defer client.Close()

	status, err := client.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mainnet", status.ChainID)
	assert.Equal(t, uint64(102030405), status.SyncInfo.LatestBlockHeight)
	assert.Equal(t, "1.35.0", status.Version.Version)
	assert.False(t, status.SyncInfo.Syncing)
}

func TestClientViewAccount(t *testing.T) {
	server := newRPCServer(t, func(req rpcRequest) (interface{}, *rpcError) {
		assert.Equal(t, "query", req.Method)
		assert.Equal(t, []interface{}{"account/alice.near", ""}, req.Params)
		return map[string]interface{}{
			"amount":        "399992611103597728750000000",
			"locked":        "0",
			"code_hash":     "11111111111111111111111111111111",
			"storage_usage": 642,
			"block_height":  17795474,
			"block_hash":    "9MjpcnwW3TSdzGweNfPbkx8M74q1XzUcT1PAN8G5bNDz",
		}, nil
	})

	client, err := NewClient(context.Background(), server.URL)
	require.NoError(t, err)
	defer client.Close()

	view, err := client.ViewAccount(context.Background(), "alice.near")
	require.NoError(t, err)
	assert.Equal(t, "399992611103597728750000000", view.Amount)
	assert.Equal(t, uint64(642), view.StorageUsage)
	assert.False(t, view.IsContract())

	_, err = client.ViewAccount(context.Background(), "")
	assert.Error(t, err)
}

func TestClientRPCError(t *testing.T) {
	server := newRPCServer(t, func(req rpcRequest) (interface{}, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "account ghost.near does not exist while viewing"}
	})

	client, err := NewClient(context.Background(), server.URL)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.ViewAccount(context.Background(), "ghost.near")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestAccountViewIsContract(t *testing.T) {
	assert.True(t, AccountView{CodeHash: "E8jZ1giWcVrps8PcV75ATauu6gFRkcwjNtKp7NKmipZG"}.IsContract())
	assert.False(t, AccountView{}.IsContract())
}
