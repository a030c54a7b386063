package terminal

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testContractAddress = "0x9A0e7d96C2296bd2Ba1E77A24a4bD38E1f06e56B"

func newTestContract(t *testing.T) *Contract {
	t.Helper()

	contract, err := NewContract(testContractAddress)
	require.NoError(t, err)

	return contract
}

// mintedLog builds a well-formed MessageMinted log entry.
func mintedLog(t *testing.T, contract *Contract, tokenID int64) *types.Log {
	t.Helper()

	data, err := contract.abi.Events["MessageMinted"].Inputs.NonIndexed().Pack(
		"terminal-bot",
		"hi",
		big.NewInt(1700000000),
		[3]byte{0xff, 0x66, 0x00},
	)
	require.NoError(t, err)

	author := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	return &types.Log{
		Address: contract.Address(),
		Topics: []common.Hash{
			contract.mintedTopic,
			common.BytesToHash(common.LeftPadBytes(author.Bytes(), 32)),
			common.BigToHash(big.NewInt(tokenID)),
			common.BigToHash(big.NewInt(1042)),
		},
		Data: data,
	}
}

func TestNewContractRejectsBadAddress(t *testing.T) {
	_, err := NewContract("not-an-address")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid terminal contract address")
}

func TestPackMintEntryPoints(t *testing.T) {
	contract := newTestContract(t)

	for _, method := range []string{"mint", "mintSticky", "mintPin"} {
		t.Run(method, func(t *testing.T) {
			data, err := contract.PackMint(method, big.NewInt(1042), "terminal-bot", "hi", []byte{0xab, 0xcd})
			require.NoError(t, err)

			// 4-byte selector plus ABI-encoded arguments
			require.Greater(t, len(data), 4)
			assert.Equal(t, contract.abi.Methods[method].ID, data[:4])
		})
	}
}

func TestPackMintUnknownMethod(t *testing.T) {
	contract := newTestContract(t)

	_, err := contract.PackMint("mintFeatured", big.NewInt(1), "u", "t", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown terminal mint method")
}

func TestDecodeMintedLog(t *testing.T) {
	contract := newTestContract(t)

	tokenID, ok := contract.DecodeMintedLog(mintedLog(t, contract, 42))
	require.True(t, ok)
	assert.Equal(t, uint64(42), tokenID)
}

func TestDecodeMintedLogSkipsForeignEntries(t *testing.T) {
	contract := newTestContract(t)

	t.Run("nil entry", func(t *testing.T) {
		_, ok := contract.DecodeMintedLog(nil)
		assert.False(t, ok)
	})

	t.Run("wrong topic count", func(t *testing.T) {
		entry := mintedLog(t, contract, 42)
		entry.Topics = entry.Topics[:2]
		_, ok := contract.DecodeMintedLog(entry)
		assert.False(t, ok)
	})

	t.Run("different event signature", func(t *testing.T) {
		entry := mintedLog(t, contract, 42)
		entry.Topics[0] = common.HexToHash("0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef")
		_, ok := contract.DecodeMintedLog(entry)
		assert.False(t, ok)
	})

	t.Run("different contract", func(t *testing.T) {
		entry := mintedLog(t, contract, 42)
		entry.Address = common.HexToAddress("0x0000000000000000000000000000000000000001")
		_, ok := contract.DecodeMintedLog(entry)
		assert.False(t, ok)
	})

	t.Run("malformed data payload", func(t *testing.T) {
		entry := mintedLog(t, contract, 42)
		entry.Data = []byte{0x01, 0x02}
		_, ok := contract.DecodeMintedLog(entry)
		assert.False(t, ok)
	})
}

func TestUnpackRecentMessages(t *testing.T) {
	contract := newTestContract(t)

	raw := []rawFeedMessage{
		{
			Id:            big.NewInt(7),
			Author:        common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"),
			Fid:           big.NewInt(1042),
			Username:      "terminal-bot",
			Text:          "hello world",
			Timestamp:     big.NewInt(1700000000),
			UsernameColor: [3]byte{0xff, 0x66, 0x00},
		},
		{
			Id:            big.NewInt(6),
			Author:        common.HexToAddress("0x0000000000000000000000000000000000000002"),
			Fid:           big.NewInt(9),
			Username:      "someone-else",
			Text:          "gm",
			Timestamp:     big.NewInt(1699990000),
			UsernameColor: [3]byte{0x00, 0xaa, 0xff},
		},
	}

	data, err := contract.abi.Methods["getRecentMessages"].Outputs.Pack(raw)
	require.NoError(t, err)

	messages, err := contract.UnpackRecentMessages(data)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, uint64(7), messages[0].ID)
	assert.Equal(t, "terminal-bot", messages[0].Username)
	assert.Equal(t, "hello world", messages[0].Text)
	assert.Equal(t, int64(1700000000), messages[0].PostedAt.Unix())
	assert.Equal(t, "ff6600", messages[0].UsernameColor)

	assert.Equal(t, uint64(6), messages[1].ID)
	assert.Equal(t, "00aaff", messages[1].UsernameColor)
}

func TestUnpackRecentMessagesEmptyFeed(t *testing.T) {
	contract := newTestContract(t)

	data, err := contract.abi.Methods["getRecentMessages"].Outputs.Pack([]rawFeedMessage{})
	require.NoError(t, err)

	messages, err := contract.UnpackRecentMessages(data)
	require.NoError(t, err)
	assert.Empty(t, messages)
}
