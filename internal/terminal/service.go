//nolint:ireturn
package terminal

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/aarondl/null/v8"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github/pubterm/terminal-agent/internal/config"
	"github/pubterm/terminal-agent/internal/util"
)

// Service is the public surface of the Public Terminal agent. The posting
// operations never return a Go error; every failure is folded into the
// PostResult. Reading the feed is a plain fallible call.
type Service interface {
	// PostMessage mints a regular message at the base price.
	PostMessage(ctx context.Context, text string) PostResult

	// PostPinnedMessage mints a featured message at the configured multiple
	// of the base price.
	PostPinnedMessage(ctx context.Context, text string) PostResult

	// ReadFeed returns up to count recent messages; count <= 0 selects the
	// configured default.
	ReadFeed(ctx context.Context, count int) ([]FeedMessage, error)
}

// The stage seams, one per pipeline component. Production implementations
// live in authorizer.go, submit.go, receipt.go and feed.go; tests plug in
// fakes here.
type authorizer interface {
	RequestAuthorization(ctx context.Context, text string) ([]byte, error)
}

type submitter interface {
	Submit(ctx context.Context, req SubmitRequest) (common.Hash, error)
}

type receiptWaiter interface {
	AwaitMint(ctx context.Context, txHash common.Hash) (null.Int64, error)
}

type feedReader interface {
	ReadRecent(ctx context.Context, count int) ([]FeedMessage, error)
}

type service struct {
	cfg        config.Terminal
	identity   *config.Identity
	authorizer authorizer
	submitter  submitter
	receipts   receiptWaiter
	feed       feedReader
}

// NewService resolves the agent identity and wires the production pipeline.
// This is the only place configuration may fail; the posting operations
// afterwards return failures as data.
func NewService(cfg config.Server) (Service, error) {
	identity, err := cfg.Agent.Resolve()
	if err != nil {
		return nil, err
	}

	contract, err := NewContract(cfg.Terminal.ContractAddress)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize terminal contract")
	}

	return newServiceWithComponents(
		cfg.Terminal,
		identity,
		newAPIAuthorizer(cfg.Terminal, identity),
		newRPCSubmitter(cfg.Terminal, identity, contract),
		newRPCReceiptWaiter(cfg.Terminal, contract),
		newRPCFeedReader(cfg.Terminal, contract),
	), nil
}

// newServiceWithComponents wires a service from explicit components.
func newServiceWithComponents(
	cfg config.Terminal,
	identity *config.Identity,
	auth authorizer,
	sub submitter,
	receipts receiptWaiter,
	feed feedReader,
) Service {
	return &service{
		cfg:        cfg,
		identity:   identity,
		authorizer: auth,
		submitter:  sub,
		receipts:   receipts,
		feed:       feed,
	}
}

func (s *service) PostMessage(ctx context.Context, text string) PostResult {
	return s.post(ctx, VariantNormal, text)
}

func (s *service) PostPinnedMessage(ctx context.Context, text string) PostResult {
	return s.post(ctx, VariantPinned, text)
}

// post runs the pipeline: Validating -> RequestingSignature -> Submitting ->
// AwaitingReceipt. Each state only moves forward, no stage retries, and
// validation failures never reach the network.
func (s *service) post(ctx context.Context, variant Variant, text string) PostResult {
	log := util.LogFromContext(ctx)

	trimmed := strings.TrimSpace(text)
	if err := validateDraft(trimmed); err != nil {
		return PostResult{Success: false, ErrorKind: ErrorKindValidation, Error: err.Error()}
	}

	authorization, err := s.authorizer.RequestAuthorization(ctx, trimmed)
	if err != nil {
		return PostResult{Success: false, ErrorKind: stageKind(err, ErrorKindAPI), Error: err.Error()}
	}

	txHash, err := s.submitter.Submit(ctx, SubmitRequest{
		Method:        s.mintMethod(variant),
		Text:          trimmed,
		Authorization: authorization,
		Value:         s.mintValue(variant),
	})
	if err != nil {
		kind, msg := classify(stageKind(err, ErrorKindSubmission), err.Error())
		return PostResult{Success: false, ErrorKind: kind, Error: msg}
	}

	tokenID, err := s.receipts.AwaitMint(ctx, txHash)
	if err != nil {
		kind, msg := classify(stageKind(err, ErrorKindReceipt), err.Error())
		return PostResult{Success: false, ErrorKind: kind, Error: msg, TxHash: txHash.Hex()}
	}

	log.Info().
		Str("variant", string(variant)).
		Str("tx_hash", txHash.Hex()).
		Bool("token_id_known", tokenID.Valid).
		Msg("Message posted")

	return PostResult{Success: true, TokenID: tokenID, TxHash: txHash.Hex()}
}

func (s *service) ReadFeed(ctx context.Context, count int) ([]FeedMessage, error) {
	if count <= 0 {
		count = s.cfg.DefaultFeedCount
	}

	messages, err := s.feed.ReadRecent(ctx, count)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read terminal feed")
	}

	return messages, nil
}

// mintMethod selects the deployment-specific contract entry point.
func (s *service) mintMethod(variant Variant) string {
	if variant == VariantPinned {
		return s.cfg.PinMethod
	}

	return s.cfg.MintMethod
}

// mintValue returns the exact payment for the variant: the base price, or
// base price times the pin multiplier for pinned messages.
func (s *service) mintValue(variant Variant) *big.Int {
	if variant == VariantPinned {
		return new(big.Int).Mul(s.cfg.BasePriceWei, big.NewInt(s.cfg.PinMultiplier))
	}

	return new(big.Int).Set(s.cfg.BasePriceWei)
}

// validateDraft enforces the 1..120 character bound on the trimmed text.
func validateDraft(trimmed string) error {
	if trimmed == "" {
		return errors.New("message text is empty")
	}
	if n := utf8.RuneCountInString(trimmed); n > maxMessageLength {
		return fmt.Errorf("message text too long (%d > %d characters)", n, maxMessageLength)
	}

	return nil
}
