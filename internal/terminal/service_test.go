package terminal

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/pubterm/terminal-agent/internal/config"
)

// anvil/hardhat dev key #0, address 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266
const testAgentKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

type fakeAuthorizer struct {
	calls     int
	signature []byte
	err       error
}

func (f *fakeAuthorizer) RequestAuthorization(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	return f.signature, f.err
}

type fakeSubmitter struct {
	calls   int
	lastReq SubmitRequest
	hash    common.Hash
	err     error
}

func (f *fakeSubmitter) Submit(_ context.Context, req SubmitRequest) (common.Hash, error) {
	f.calls++
	f.lastReq = req
	return f.hash, f.err
}

type fakeReceiptWaiter struct {
	calls   int
	tokenID null.Int64
	err     error
}

func (f *fakeReceiptWaiter) AwaitMint(_ context.Context, _ common.Hash) (null.Int64, error) {
	f.calls++
	return f.tokenID, f.err
}

type fakeFeedReader struct {
	calls     int
	lastCount int
	messages  []FeedMessage
	err       error
}

func (f *fakeFeedReader) ReadRecent(_ context.Context, count int) ([]FeedMessage, error) {
	f.calls++
	f.lastCount = count
	return f.messages, f.err
}

type testPipeline struct {
	service    Service
	authorizer *fakeAuthorizer
	submitter  *fakeSubmitter
	receipts   *fakeReceiptWaiter
	feed       *fakeFeedReader
}

func newTestPipeline(t *testing.T) *testPipeline {
	t.Helper()

	identity, err := config.Agent{FID: "1042", Username: "terminal-bot", PrivateKey: testAgentKey}.Resolve()
	require.NoError(t, err)

	cfg := config.Terminal{
		BasePriceWei:     big.NewInt(100000000000000),
		PinMultiplier:    10,
		MintMethod:       "mint",
		PinMethod:        "mintSticky",
		DefaultFeedCount: 50,
	}

	pipeline := &testPipeline{
		authorizer: &fakeAuthorizer{signature: []byte{0xab, 0xcd}},
		submitter:  &fakeSubmitter{hash: common.HexToHash("0xdeadbeef")},
		receipts:   &fakeReceiptWaiter{tokenID: null.Int64From(42)},
		feed:       &fakeFeedReader{},
	}
	pipeline.service = newServiceWithComponents(cfg, identity, pipeline.authorizer, pipeline.submitter, pipeline.receipts, pipeline.feed)

	return pipeline
}

func TestPostMessageEmptyDraftMakesNoNetworkCalls(t *testing.T) {
	p := newTestPipeline(t)

	for _, text := range []string{"", "   ", "\n\t "} {
		result := p.service.PostMessage(t.Context(), text)

		assert.False(t, result.Success)
		assert.Equal(t, ErrorKindValidation, result.ErrorKind)
		assert.Contains(t, result.Error, "empty")
		assert.Empty(t, result.TxHash)
	}

	assert.Zero(t, p.authorizer.calls)
	assert.Zero(t, p.submitter.calls)
	assert.Zero(t, p.receipts.calls)
}

func TestPostMessageOverlongDraftMakesNoNetworkCalls(t *testing.T) {
	p := newTestPipeline(t)

	result := p.service.PostMessage(t.Context(), strings.Repeat("a", 121))

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindValidation, result.ErrorKind)
	assert.Contains(t, result.Error, "too long")
	assert.Zero(t, p.authorizer.calls)
	assert.Zero(t, p.submitter.calls)
	assert.Zero(t, p.receipts.calls)
}

func TestPostPinnedMessageValidatesLikeNormal(t *testing.T) {
	p := newTestPipeline(t)

	result := p.service.PostPinnedMessage(t.Context(), strings.Repeat("a", 121))

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindValidation, result.ErrorKind)
	assert.Zero(t, p.authorizer.calls)
	assert.Zero(t, p.submitter.calls)
}

func TestPostMessageExactly120CharsIsValid(t *testing.T) {
	p := newTestPipeline(t)

	result := p.service.PostMessage(t.Context(), strings.Repeat("a", 120))

	assert.True(t, result.Success)
	assert.Equal(t, 1, p.authorizer.calls)
}

// leading/trailing whitespace does not count against the limit
func TestPostMessageTrimsBeforeValidation(t *testing.T) {
	p := newTestPipeline(t)

	result := p.service.PostMessage(t.Context(), "  "+strings.Repeat("a", 120)+"  ")

	assert.True(t, result.Success)
	assert.Equal(t, strings.Repeat("a", 120), p.submitter.lastReq.Text)
}

func TestPostMessageAPIFailureShortCircuits(t *testing.T) {
	p := newTestPipeline(t)
	p.authorizer.signature = nil
	p.authorizer.err = newStageError(ErrorKindAPI, "terminal is busy, try again later")

	result := p.service.PostMessage(t.Context(), "hi")

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindAPI, result.ErrorKind)
	// the server-supplied message is surfaced verbatim
	assert.Equal(t, "terminal is busy, try again later", result.Error)
	assert.Zero(t, p.submitter.calls)
	assert.Zero(t, p.receipts.calls)
}

func TestPostMessageSubmissionFailure(t *testing.T) {
	p := newTestPipeline(t)
	p.submitter.err = newStageError(ErrorKindSubmission, "insufficient funds for gas * price + value")

	result := p.service.PostMessage(t.Context(), "hi")

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindSubmission, result.ErrorKind)
	assert.Contains(t, result.Error, "wallet balance too low")
	assert.Empty(t, result.TxHash)
	assert.Zero(t, p.receipts.calls)
}

func TestPostMessageRevertedKeepsTxHash(t *testing.T) {
	p := newTestPipeline(t)
	p.receipts.tokenID = null.Int64{}
	p.receipts.err = newStageError(ErrorKindReverted, "transaction reverted on-chain")

	result := p.service.PostMessage(t.Context(), "hi")

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindReverted, result.ErrorKind)
	assert.Equal(t, p.submitter.hash.Hex(), result.TxHash)
	assert.False(t, result.TokenID.Valid)
}

func TestPostMessageReceiptTransportFailureKeepsTxHash(t *testing.T) {
	p := newTestPipeline(t)
	p.receipts.tokenID = null.Int64{}
	p.receipts.err = newStageError(ErrorKindReceipt, "connection reset while polling receipt")

	result := p.service.PostMessage(t.Context(), "hi")

	assert.False(t, result.Success)
	assert.Equal(t, ErrorKindReceipt, result.ErrorKind)
	assert.Equal(t, p.submitter.hash.Hex(), result.TxHash)
}

func TestPostMessageDegradedSuccess(t *testing.T) {
	p := newTestPipeline(t)
	p.receipts.tokenID = null.Int64{}

	result := p.service.PostMessage(t.Context(), "hi")

	assert.True(t, result.Success)
	assert.False(t, result.TokenID.Valid)
	assert.Equal(t, p.submitter.hash.Hex(), result.TxHash)
}

func TestPostMessagePaymentAndEntryPoint(t *testing.T) {
	p := newTestPipeline(t)

	result := p.service.PostMessage(t.Context(), "whatever the draft says")
	require.True(t, result.Success)

	assert.Equal(t, "mint", p.submitter.lastReq.Method)
	assert.Equal(t, "100000000000000", p.submitter.lastReq.Value.String())
}

func TestPostPinnedMessagePaysExactlyTenTimesBase(t *testing.T) {
	p := newTestPipeline(t)

	result := p.service.PostPinnedMessage(t.Context(), "pin me")
	require.True(t, result.Success)

	assert.Equal(t, "mintSticky", p.submitter.lastReq.Method)
	assert.Equal(t, "1000000000000000", p.submitter.lastReq.Value.String())
}

// the full happy path: draft "hi", signing API returns {"signature":"0xabc"},
// receipt carries one MessageMinted log with token id 42
func TestPostMessageScenario(t *testing.T) {
	var captured signMintRequest
	signAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/sign-mint", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"signature":"0xabc"}`))
	}))
	defer signAPI.Close()

	identity, err := config.Agent{FID: "1042", Username: "terminal-bot", PrivateKey: testAgentKey}.Resolve()
	require.NoError(t, err)

	cfg := config.Terminal{
		APIBaseURL:       signAPI.URL,
		BasePriceWei:     big.NewInt(100000000000000),
		PinMultiplier:    10,
		MintMethod:       "mint",
		PinMethod:        "mintSticky",
		DefaultFeedCount: 50,
	}

	sub := &fakeSubmitter{hash: common.HexToHash("0xdeadbeef")}
	receipts := &fakeReceiptWaiter{tokenID: null.Int64From(42)}
	service := newServiceWithComponents(cfg, identity, newAPIAuthorizer(cfg, identity), sub, receipts, &fakeFeedReader{})

	result := service.PostMessage(t.Context(), "hi")

	require.True(t, result.Success)
	require.True(t, result.TokenID.Valid)
	assert.Equal(t, int64(42), result.TokenID.Int64)
	assert.Equal(t, common.HexToHash("0xdeadbeef").Hex(), result.TxHash)

	// the signing API saw the full authorization tuple
	assert.Equal(t, int64(1042), captured.FID)
	assert.Equal(t, "terminal-bot", captured.Username)
	assert.Equal(t, "hi", captured.Text)
	assert.Equal(t, identity.Address.Hex(), captured.Address)

	// the signature bytes were handed to the submitter unmodified
	assert.Equal(t, common.FromHex("0xabc"), sub.lastReq.Authorization)
}

func TestReadFeedUsesDefaultCount(t *testing.T) {
	p := newTestPipeline(t)
	p.feed.messages = []FeedMessage{{ID: 1, Username: "a", Text: "x"}}

	messages, err := p.service.ReadFeed(t.Context(), 0)
	require.NoError(t, err)

	assert.Equal(t, 50, p.feed.lastCount)
	assert.Len(t, messages, 1)
}

func TestReadFeedPassesExplicitCount(t *testing.T) {
	p := newTestPipeline(t)

	_, err := p.service.ReadFeed(t.Context(), 3)
	require.NoError(t, err)

	assert.Equal(t, 3, p.feed.lastCount)
}

func TestReadFeedShortFeedIsNotAnError(t *testing.T) {
	p := newTestPipeline(t)
	p.feed.messages = []FeedMessage{{ID: 1}}

	messages, err := p.service.ReadFeed(t.Context(), 100)
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}
