package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github/pubterm/terminal-agent/internal/config"
	"github/pubterm/terminal-agent/internal/util"
)

// signMintPath is the fixed signing endpoint under the API base URL.
const signMintPath = "/api/sign-mint"

type signMintRequest struct {
	FID      int64  `json:"fid"`
	Username string `json:"username"`
	Text     string `json:"text"`
	Address  string `json:"address"`
}

type signMintResponse struct {
	Signature     string `json:"signature"`
	MessageHash   string `json:"messageHash"`
	SignerAddress string `json:"signerAddress"`
}

type signMintErrorResponse struct {
	Error string `json:"error"`
}

// apiAuthorizer requests mint authorizations from the off-chain signing API.
// Authorizations are scoped to one fid+username+text+address tuple; they are
// consumed exactly once by the submitter and never cached.
type apiAuthorizer struct {
	baseURL  string
	identity *config.Identity
	client   *http.Client
}

func newAPIAuthorizer(cfg config.Terminal, identity *config.Identity) *apiAuthorizer {
	return &apiAuthorizer{
		baseURL:  strings.TrimRight(cfg.APIBaseURL, "/"),
		identity: identity,
		client:   http.DefaultClient,
	}
}

// RequestAuthorization performs the single sign-mint POST. A failed attempt
// is surfaced immediately; retry policy belongs to the caller.
func (a *apiAuthorizer) RequestAuthorization(ctx context.Context, text string) ([]byte, error) {
	log := util.LogFromContext(ctx)

	payload, err := json.Marshal(signMintRequest{
		FID:      a.identity.FID.Int64(),
		Username: a.identity.Username,
		Text:     text,
		Address:  a.identity.Address.Hex(),
	})
	if err != nil {
		return nil, newStageError(ErrorKindAPI, errors.Wrap(err, "failed to encode sign-mint request").Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+signMintPath, bytes.NewReader(payload))
	if err != nil {
		return nil, newStageError(ErrorKindAPI, errors.Wrap(err, "failed to build sign-mint request").Error())
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	res, err := a.client.Do(req)
	if err != nil {
		return nil, newStageError(ErrorKindAPI, errors.Wrap(err, "sign-mint request failed").Error())
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		var apiErr signMintErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return nil, newStageError(ErrorKindAPI, apiErr.Error)
		}

		return nil, newStageError(ErrorKindAPI, fmt.Sprintf("sign-mint API returned status %d", res.StatusCode))
	}

	var body signMintResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, newStageError(ErrorKindAPI, errors.Wrap(err, "failed to decode sign-mint response").Error())
	}
	if body.Signature == "" {
		return nil, newStageError(ErrorKindAPI, "sign-mint response carried no signature")
	}

	signature := common.FromHex(body.Signature)

	log.Debug().
		Int("signature_bytes", len(signature)).
		Str("signer", body.SignerAddress).
		Msg("Mint authorization obtained")

	return signature, nil
}
