package terminal

import (
	"math/big"
	"time"

	"github.com/aarondl/null/v8"
)

// Variant selects the contract entry point and attached payment of a post.
type Variant string

const (
	// VariantNormal mints a regular feed message at the base price.
	VariantNormal Variant = "normal"
	// VariantPinned mints a featured message at the configured multiple of
	// the base price.
	VariantPinned Variant = "pinned"
)

// maxMessageLength is the contract-enforced message length, checked locally
// before any network call.
const maxMessageLength = 120

// PostResult is the terminal artifact of one posting pipeline run. Failures
// are data, never panics or raised errors.
type PostResult struct {
	Success bool `json:"success"`
	// TokenID is unset on failure and on degraded success, where the
	// transaction succeeded on-chain but no mint event could be decoded
	// from the receipt.
	TokenID null.Int64 `json:"tokenId,omitempty"`
	// TxHash is set as soon as the transaction was broadcast, including on
	// reverted and receipt-stage failures, so callers can look the
	// transaction up out-of-band.
	TxHash    string    `json:"txHash,omitempty"`
	ErrorKind ErrorKind `json:"errorKind,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// FeedMessage is one on-chain message as returned by the read-only accessor.
type FeedMessage struct {
	ID       uint64    `json:"id"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	PostedAt time.Time `json:"postedAt"`
	// UsernameColor is the 6-hex-digit color assigned by the contract.
	UsernameColor string `json:"usernameColor"`
}

// SubmitRequest carries everything the transaction submitter needs for one
// broadcast. Value and Method are resolved by the pipeline so both variants
// share a single code path.
type SubmitRequest struct {
	Method        string
	Text          string
	Authorization []byte
	Value         *big.Int
}
