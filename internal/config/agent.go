package config

import (
	"crypto/ecdsa"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Agent holds the raw, unvalidated posting identity as read from the
// environment. Resolve turns it into a usable Identity.
type Agent struct {
	FID        string
	Username   string
	PrivateKey string `json:"-"`
}

// Identity is the resolved posting identity. The address is derived from the
// private key exactly once here; every downstream component borrows it.
type Identity struct {
	FID      *big.Int
	Username string
	Key      *ecdsa.PrivateKey
	Address  common.Address
}

// Resolve validates the agent identity and derives the on-chain address.
// Checks run in a fixed order and fail fast on the first violation:
// FID present, username present, private key present, FID a positive
// integer, private key a well-formed secp256k1 key.
func (a Agent) Resolve() (*Identity, error) {
	if strings.TrimSpace(a.FID) == "" {
		return nil, errors.New("TERMINAL_AGENT_FID is required")
	}
	if strings.TrimSpace(a.Username) == "" {
		return nil, errors.New("TERMINAL_AGENT_USERNAME is required")
	}
	if strings.TrimSpace(a.PrivateKey) == "" {
		return nil, errors.New("TERMINAL_AGENT_PRIVATE_KEY is required")
	}

	fid, err := strconv.ParseInt(strings.TrimSpace(a.FID), 10, 64)
	if err != nil || fid <= 0 {
		return nil, errors.Errorf("TERMINAL_AGENT_FID must be a positive integer, got %q", a.FID)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(a.PrivateKey), "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "TERMINAL_AGENT_PRIVATE_KEY is not a valid secp256k1 private key")
	}

	return &Identity{
		FID:      big.NewInt(fid),
		Username: a.Username,
		Key:      key,
		Address:  crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}
