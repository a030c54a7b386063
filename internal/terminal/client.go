package terminal

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
)

// RPCClient wraps the go-ethereum client for the handful of calls the
// pipeline needs. Every pipeline operation dials its own client and closes
// it when done; no connection state is shared between operations.
type RPCClient struct {
	url    string
	client *ethclient.Client
}

// NewRPCClient dials the RPC endpoint.
func NewRPCClient(url string) (*RPCClient, error) {
	if url == "" {
		return nil, errors.New("RPC URL is required")
	}

	client, err := ethclient.Dial(url)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RPC node")
	}

	return &RPCClient{url: url, client: client}, nil
}

// Close releases the underlying connection.
func (c *RPCClient) Close() {
	c.client.Close()
}

// ChainID returns the chain ID reported by the node.
func (c *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	chainID, err := c.client.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get chain ID")
	}

	return chainID, nil
}

// PendingNonceAt returns the pending nonce for the given address.
func (c *RPCClient) PendingNonceAt(ctx context.Context, address common.Address) (uint64, error) {
	nonce, err := c.client.PendingNonceAt(ctx, address)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get pending nonce")
	}

	return nonce, nil
}

// SuggestGasTipCap returns the suggested priority fee (EIP-1559).
func (c *RPCClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	tipCap, err := c.client.SuggestGasTipCap(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to suggest gas tip cap")
	}

	return tipCap, nil
}

// LatestHeader returns the head block header.
func (c *RPCClient) LatestHeader(ctx context.Context) (*types.Header, error) {
	header, err := c.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest header")
	}

	return header, nil
}

// EstimateGas estimates the gas usage of the given call.
func (c *RPCClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	gas, err := c.client.EstimateGas(ctx, msg)
	if err != nil {
		return 0, errors.Wrap(err, "failed to estimate gas")
	}

	return gas, nil
}

// SendTransaction broadcasts a signed transaction.
func (c *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	if err := c.client.SendTransaction(ctx, tx); err != nil {
		return errors.Wrap(err, "failed to send transaction")
	}

	return nil
}

// TransactionReceipt returns the receipt for the given hash. The underlying
// ethereum.NotFound error is passed through untouched so callers can poll.
func (c *RPCClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return c.client.TransactionReceipt(ctx, txHash)
}

// CallContract performs a read-only eth_call against the latest block.
func (c *RPCClient) CallContract(ctx context.Context, msg ethereum.CallMsg) ([]byte, error) {
	resp, err := c.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to call contract")
	}

	return resp, nil
}
