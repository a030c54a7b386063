package terminal

import (
	"encoding/hex"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
)

// publicTerminalABI covers the mint entry points of both known deployments
// (mintSticky on mainnet, mintPin on testnet), the read accessors and the
// MessageMinted event. Which pinned entry point is used is configuration.
const publicTerminalABI = `[
	{"type":"function","name":"mint","stateMutability":"payable","inputs":[
		{"name":"fid","type":"uint256"},
		{"name":"username","type":"string"},
		{"name":"text","type":"string"},
		{"name":"signature","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"mintSticky","stateMutability":"payable","inputs":[
		{"name":"fid","type":"uint256"},
		{"name":"username","type":"string"},
		{"name":"text","type":"string"},
		{"name":"signature","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"mintPin","stateMutability":"payable","inputs":[
		{"name":"fid","type":"uint256"},
		{"name":"username","type":"string"},
		{"name":"text","type":"string"},
		{"name":"signature","type":"bytes"}],"outputs":[]},
	{"type":"function","name":"getRecentMessages","stateMutability":"view","inputs":[
		{"name":"count","type":"uint256"}],"outputs":[
		{"name":"","type":"tuple[]","components":[
			{"name":"id","type":"uint256"},
			{"name":"author","type":"address"},
			{"name":"fid","type":"uint256"},
			{"name":"username","type":"string"},
			{"name":"text","type":"string"},
			{"name":"timestamp","type":"uint256"},
			{"name":"usernameColor","type":"bytes3"}]}]},
	{"type":"function","name":"getMessageCount","stateMutability":"view","inputs":[],"outputs":[
		{"name":"","type":"uint256"}]},
	{"type":"event","name":"MessageMinted","inputs":[
		{"name":"author","type":"address","indexed":true},
		{"name":"tokenId","type":"uint256","indexed":true},
		{"name":"fid","type":"uint256","indexed":true},
		{"name":"username","type":"string","indexed":false},
		{"name":"text","type":"string","indexed":false},
		{"name":"timestamp","type":"uint256","indexed":false},
		{"name":"usernameColor","type":"bytes3","indexed":false}]},
	{"type":"event","name":"MessagePinned","inputs":[
		{"name":"tokenId","type":"uint256","indexed":true}]}
]`

// mintedEventTopics is the fixed topic count of MessageMinted: signature
// plus three indexed arguments.
const mintedEventTopics = 4

// rawFeedMessage mirrors the getRecentMessages tuple layout for abi decoding.
type rawFeedMessage struct {
	Id            *big.Int
	Author        common.Address
	Fid           *big.Int
	Username      string
	Text          string
	Timestamp     *big.Int
	UsernameColor [3]byte
}

// Contract is the codec for one Public Terminal deployment.
type Contract struct {
	abi         abi.ABI
	address     common.Address
	mintedTopic common.Hash
}

// NewContract parses the terminal ABI for the given deployment address.
func NewContract(address string) (*Contract, error) {
	parsed, err := abi.JSON(strings.NewReader(publicTerminalABI))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse terminal ABI")
	}

	if !common.IsHexAddress(address) {
		return nil, errors.Errorf("invalid terminal contract address: %q", address)
	}

	return &Contract{
		abi:         parsed,
		address:     common.HexToAddress(address),
		mintedTopic: parsed.Events["MessageMinted"].ID,
	}, nil
}

// Address returns the deployment address.
func (c *Contract) Address() common.Address {
	return c.address
}

// PackMint builds the calldata for the given mint entry point. Both the
// normal and the pinned entry points take identical arguments.
func (c *Contract) PackMint(method string, fid *big.Int, username, text string, signature []byte) ([]byte, error) {
	if _, ok := c.abi.Methods[method]; !ok {
		return nil, errors.Errorf("unknown terminal mint method: %q", method)
	}

	data, err := c.abi.Pack(method, fid, username, text, signature)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s calldata", method)
	}

	return data, nil
}

// PackGetRecentMessages builds the calldata for the feed accessor.
func (c *Contract) PackGetRecentMessages(count int64) ([]byte, error) {
	data, err := c.abi.Pack("getRecentMessages", big.NewInt(count))
	if err != nil {
		return nil, errors.Wrap(err, "failed to pack getRecentMessages calldata")
	}

	return data, nil
}

// UnpackRecentMessages decodes the getRecentMessages return data into the
// public message shape, a 1:1 field mapping.
func (c *Contract) UnpackRecentMessages(data []byte) ([]FeedMessage, error) {
	out, err := c.abi.Unpack("getRecentMessages", data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unpack getRecentMessages return data")
	}

	raw := *abi.ConvertType(out[0], new([]rawFeedMessage)).(*[]rawFeedMessage)

	messages := make([]FeedMessage, 0, len(raw))
	for _, m := range raw {
		messages = append(messages, FeedMessage{
			ID:            m.Id.Uint64(),
			Username:      m.Username,
			Text:          m.Text,
			PostedAt:      time.Unix(m.Timestamp.Int64(), 0).UTC(),
			UsernameColor: hex.EncodeToString(m.UsernameColor[:]),
		})
	}

	return messages, nil
}

// DecodeMintedLog attempts to decode one receipt log entry as a
// MessageMinted event and returns its token id. Entries emitted by other
// contracts or other events do not match and report ok=false; that is
// expected, receipts routinely interleave foreign logs.
func (c *Contract) DecodeMintedLog(entry *types.Log) (uint64, bool) {
	if entry == nil || len(entry.Topics) != mintedEventTopics {
		return 0, false
	}
	if entry.Topics[0] != c.mintedTopic {
		return 0, false
	}
	if entry.Address != c.address {
		return 0, false
	}

	// malformed data payload disqualifies the entry even when the topics line up
	if _, err := c.abi.Unpack("MessageMinted", entry.Data); err != nil {
		return 0, false
	}

	tokenID := new(big.Int).SetBytes(entry.Topics[2].Bytes())

	return tokenID.Uint64(), true
}
