package terminal

import (
	"context"

	"github.com/ethereum/go-ethereum"
	"github/pubterm/terminal-agent/internal/config"
)

// rpcFeedReader retrieves recent messages through the read-only contract
// accessor. Order is whatever the contract returns; a count larger than the
// number of available messages yields all of them without error.
type rpcFeedReader struct {
	cfg      config.Terminal
	contract *Contract
}

func newRPCFeedReader(cfg config.Terminal, contract *Contract) *rpcFeedReader {
	return &rpcFeedReader{cfg: cfg, contract: contract}
}

// ReadRecent fetches up to count messages from the feed.
func (r *rpcFeedReader) ReadRecent(ctx context.Context, count int) ([]FeedMessage, error) {
	client, err := NewRPCClient(r.cfg.RPCURL)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	data, err := r.contract.PackGetRecentMessages(int64(count))
	if err != nil {
		return nil, err
	}

	contractAddress := r.contract.Address()
	resp, err := client.CallContract(ctx, ethereum.CallMsg{
		To:   &contractAddress,
		Data: data,
	})
	if err != nil {
		return nil, err
	}

	return r.contract.UnpackRecentMessages(resp)
}
