package terminal

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"github/pubterm/terminal-agent/internal/config"
	"github/pubterm/terminal-agent/internal/util"
)

const (
	// defaultMintGasLimit is used when gas estimation fails. Estimation can
	// revert spuriously on some nodes before the payment value is attached,
	// so a failed estimate must not kill the submission.
	defaultMintGasLimit = 300000
	// eip1559FeeMultiplier follows maxFee = baseFee*2 + tip.
	eip1559FeeMultiplier = 2
)

// rpcSubmitter builds, signs and broadcasts mint transactions. It blocks
// until the node accepts the transaction into its pool, not until inclusion;
// interpreting the execution outcome is the receipt interpreter's job.
type rpcSubmitter struct {
	cfg      config.Terminal
	identity *config.Identity
	contract *Contract
}

func newRPCSubmitter(cfg config.Terminal, identity *config.Identity, contract *Contract) *rpcSubmitter {
	return &rpcSubmitter{cfg: cfg, identity: identity, contract: contract}
}

// Submit broadcasts one mint transaction and returns its hash. Any failure
// here means the transaction never reached the chain.
func (s *rpcSubmitter) Submit(ctx context.Context, req SubmitRequest) (common.Hash, error) {
	log := util.LogFromContext(ctx)

	client, err := NewRPCClient(s.cfg.RPCURL)
	if err != nil {
		return common.Hash{}, newStageError(ErrorKindSubmission, err.Error())
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return common.Hash{}, newStageError(ErrorKindSubmission, err.Error())
	}

	nonce, err := client.PendingNonceAt(ctx, s.identity.Address)
	if err != nil {
		return common.Hash{}, newStageError(ErrorKindSubmission, err.Error())
	}

	tipCap, err := client.SuggestGasTipCap(ctx)
	if err != nil {
		return common.Hash{}, newStageError(ErrorKindSubmission, err.Error())
	}

	header, err := client.LatestHeader(ctx)
	if err != nil {
		return common.Hash{}, newStageError(ErrorKindSubmission, err.Error())
	}
	if header.BaseFee == nil {
		return common.Hash{}, newStageError(ErrorKindSubmission, "chain does not support EIP-1559 (baseFee is nil)")
	}

	maxFee := new(big.Int).Add(new(big.Int).Mul(header.BaseFee, big.NewInt(eip1559FeeMultiplier)), tipCap)

	data, err := s.contract.PackMint(req.Method, s.identity.FID, s.identity.Username, req.Text, req.Authorization)
	if err != nil {
		return common.Hash{}, newStageError(ErrorKindSubmission, err.Error())
	}

	contractAddress := s.contract.Address()
	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From:  s.identity.Address,
		To:    &contractAddress,
		Value: req.Value,
		Data:  data,
	})
	if err != nil {
		log.Warn().Err(err).Uint64("fallback_gas_limit", defaultMintGasLimit).
			Msg("Gas estimation failed, using fallback limit")
		gasLimit = defaultMintGasLimit
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   chainID,
		Nonce:     nonce,
		GasTipCap: tipCap,
		GasFeeCap: maxFee,
		Gas:       gasLimit,
		To:        &contractAddress,
		Value:     req.Value,
		Data:      data,
	})

	signer := types.LatestSignerForChainID(chainID)
	signedTx, err := types.SignTx(tx, signer, s.identity.Key)
	if err != nil {
		return common.Hash{}, newStageError(ErrorKindSubmission, errors.Wrap(err, "failed to sign transaction").Error())
	}

	if err := client.SendTransaction(ctx, signedTx); err != nil {
		return common.Hash{}, newStageError(ErrorKindSubmission, err.Error())
	}

	log.Info().
		Str("tx_hash", signedTx.Hash().Hex()).
		Str("method", req.Method).
		Str("value_wei", req.Value.String()).
		Uint64("nonce", nonce).
		Msg("Mint transaction broadcast")

	return signedTx.Hash(), nil
}
