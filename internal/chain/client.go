package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/rpc"
)

// Client wraps a JSON-RPC connection to a node.
type Client struct {
	rpcClient *rpc.Client
}

// NewClient creates a new chain client from the RPC URL.
func NewClient(ctx context.Context, rpcURL string) (*Client, error) {
	rpcClient, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, err
	}
	return &Client{rpcClient: rpcClient}, nil
}

// Close closes the underlying RPC client.
func (c *Client) Close() {
	if c.rpcClient != nil {
		c.rpcClient.Close()
	}
}

// SyncInfo is the sync section of a node status.
type SyncInfo struct {
	LatestBlockHash   string `json:"latest_block_hash"`
	LatestBlockHeight uint64 `json:"latest_block_height"`
	LatestBlockTime   string `json:"latest_block_time"`
	Syncing           bool   `json:"syncing"`
}

// NodeVersion identifies the node build.
type NodeVersion struct {
	Version string `json:"version"`
	Build   string `json:"build"`
}

// Status is the result of the status method.
type Status struct {
	ChainID  string      `json:"chain_id"`
	Version  NodeVersion `json:"version"`
	SyncInfo SyncInfo    `json:"sync_info"`
}

// Status returns the node status.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	if err := c.rpcClient.CallContext(ctx, &status, "status"); err != nil {
		return Status{}, fmt.Errorf("status: %w", err)
	}
	return status, nil
}

// AccountView is the on-chain state of an account at the block the node
// answered from, reported in BlockHeight and BlockHash.
// Balances are decimal strings.
type AccountView struct {
	Amount       string `json:"amount"`
	Locked       string `json:"locked"`
	CodeHash     string `json:"code_hash"`
	StorageUsage uint64 `json:"storage_usage"`
	BlockHeight  uint64 `json:"block_height"`
	BlockHash    string `json:"block_hash"`
}

// emptyCodeHash marks accounts without a deployed contract.
const emptyCodeHash = "11111111111111111111111111111111"

// IsContract reports whether the account has a deployed contract.
func (a AccountView) IsContract() bool {
	return a.CodeHash != "" && a.CodeHash != emptyCodeHash
}

// ViewAccount queries an account through the positional query form
// ("account/<id>", ""). The rpc client always sends array params, so the
// object form with request_type and finality is not available; the node
// answers from its latest block.
func (c *Client) ViewAccount(ctx context.Context, accountID string) (AccountView, error) {
	if accountID == "" {
		return AccountView{}, fmt.Errorf("account id is required")
	}
	var view AccountView
	if err := c.rpcClient.CallContext(ctx, &view, "query", "account/"+accountID, ""); err != nil {
		return AccountView{}, fmt.Errorf("view account %s: %w", accountID, err)
	}
	return view, nil
}
