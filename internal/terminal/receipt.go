package terminal

import (
	"context"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/pubterm/terminal-agent/internal/config"
	"github/pubterm/terminal-agent/internal/util"
)

// receiptPollInterval paces the eth_getTransactionReceipt polling. One
// confirmation is sufficient; there is no internal timeout, cancellation
// happens through the context only.
const receiptPollInterval = 2 * time.Second

// rpcReceiptWaiter blocks until a terminal receipt exists for a transaction
// hash and interprets its outcome.
type rpcReceiptWaiter struct {
	cfg      config.Terminal
	contract *Contract
}

func newRPCReceiptWaiter(cfg config.Terminal, contract *Contract) *rpcReceiptWaiter {
	return &rpcReceiptWaiter{cfg: cfg, contract: contract}
}

// AwaitMint waits for the receipt of txHash and extracts the minted token
// id. A reverted execution and a transport failure while waiting surface as
// stage errors of kind reverted and receipt respectively; a confirmed
// receipt without a decodable mint event is a degraded success with the
// token id unset.
func (w *rpcReceiptWaiter) AwaitMint(ctx context.Context, txHash common.Hash) (null.Int64, error) {
	client, err := NewRPCClient(w.cfg.RPCURL)
	if err != nil {
		return null.Int64{}, newStageError(ErrorKindReceipt, err.Error())
	}
	defer client.Close()

	receipt, err := w.awaitReceipt(ctx, client, txHash)
	if err != nil {
		return null.Int64{}, newStageError(ErrorKindReceipt, err.Error())
	}

	return w.interpretReceipt(ctx, receipt)
}

// awaitReceipt polls until the node reports a receipt for the hash.
func (w *rpcReceiptWaiter) awaitReceipt(ctx context.Context, client *RPCClient, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, errors.Wrap(err, "failed to get transaction receipt")
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), "gave up waiting for transaction receipt")
		case <-ticker.C:
		}
	}
}

// interpretReceipt turns a terminal receipt into the mint outcome.
func (w *rpcReceiptWaiter) interpretReceipt(ctx context.Context, receipt *types.Receipt) (null.Int64, error) {
	log := util.LogFromContext(ctx)

	if receipt.Status != types.ReceiptStatusSuccessful {
		// no event parsing on a reverted execution
		return null.Int64{}, newStageError(ErrorKindReverted, "transaction reverted on-chain")
	}

	for _, entry := range receipt.Logs {
		tokenID, ok := w.contract.DecodeMintedLog(entry)
		if !ok {
			// foreign contracts' logs share the receipt, skipping is expected
			continue
		}

		log.Info().
			Str("tx_hash", receipt.TxHash.Hex()).
			Uint64("token_id", tokenID).
			Msg("Message minted")

		return null.Int64From(int64(tokenID)), nil
	}

	// the transaction succeeded even though no mint event decoded locally;
	// report success with the token id unset rather than failing
	log.Warn().
		Str("tx_hash", receipt.TxHash.Hex()).
		Int("log_count", len(receipt.Logs)).
		Msg("Confirmed receipt carried no decodable MessageMinted event")

	return null.Int64{}, nil
}
