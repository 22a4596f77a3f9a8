package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Saadcui/BlockTix/pkg/retry"
)

// Config holds chain bridge client configuration.
type Config struct {
	// RPCEndpoint is the base URL of the chain bridge service.
	RPCEndpoint string
	// ContractAddress identifies the ticket contract on chain.
	ContractAddress string
	// SignerAddress is the address of the key the bridge signs with.
	SignerAddress string
	// CallTimeout bounds every individual bridge call.
	CallTimeout time.Duration
	// MaxRetries and RetryInterval apply to transient transport failures.
	MaxRetries    int
	RetryInterval time.Duration
}

// HTTPGateway talks JSON over HTTP to the chain bridge.
type HTTPGateway struct {
	config  *Config
	client  *http.Client
	retrier *retry.Retrier
}

// NewHTTPGateway creates a gateway client for the configured bridge.
func NewHTTPGateway(cfg *Config) *HTTPGateway {
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	retryInterval := cfg.RetryInterval
	if retryInterval <= 0 {
		retryInterval = 500 * time.Millisecond
	}

	return &HTTPGateway{
		config: cfg,
		client: &http.Client{Timeout: timeout},
		retrier: retry.New(&retry.Config{
			MaxRetries:      cfg.MaxRetries,
			InitialInterval: retryInterval,
			MaxInterval:     5 * time.Second,
			Multiplier:      2.0,
			JitterFactor:    0.1,
		}),
	}
}

type mintRequest struct {
	Contract    string `json:"contract"`
	To          string `json:"to"`
	MetadataURI string `json:"metadataUri"`
}

type tokenRequest struct {
	Contract string `json:"contract"`
	TokenID  int64  `json:"tokenId"`
	Wallet   string `json:"wallet,omitempty"`
}

// Mint creates the token for a ticket at the given address.
func (g *HTTPGateway) Mint(ctx context.Context, toAddress, metadataURI string) (*MintResult, error) {
	var result MintResult
	err := g.call(ctx, "mint", &mintRequest{
		Contract:    g.config.ContractAddress,
		To:          toAddress,
		MetadataURI: metadataURI,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ClaimToWallet transfers a custodial token to a holder wallet.
func (g *HTTPGateway) ClaimToWallet(ctx context.Context, tokenID int64, wallet string) (*Receipt, error) {
	var receipt Receipt
	err := g.call(ctx, "claim", &tokenRequest{
		Contract: g.config.ContractAddress,
		TokenID:  tokenID,
		Wallet:   wallet,
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ReturnToCustody moves a claimed token back to the platform address.
func (g *HTTPGateway) ReturnToCustody(ctx context.Context, tokenID int64) (*Receipt, error) {
	var receipt Receipt
	err := g.call(ctx, "return-to-custody", &tokenRequest{
		Contract: g.config.ContractAddress,
		TokenID:  tokenID,
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// Redeem marks the token used on chain.
func (g *HTTPGateway) Redeem(ctx context.Context, tokenID int64) (*Receipt, error) {
	var receipt Receipt
	err := g.call(ctx, "redeem", &tokenRequest{
		Contract: g.config.ContractAddress,
		TokenID:  tokenID,
	}, &receipt)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// OwnerOf returns the on-chain owner of a token.
func (g *HTTPGateway) OwnerOf(ctx context.Context, tokenID int64) (string, error) {
	var result struct {
		Owner string `json:"owner"`
	}
	err := g.call(ctx, "owner-of", &tokenRequest{
		Contract: g.config.ContractAddress,
		TokenID:  tokenID,
	}, &result)
	if err != nil {
		return "", err
	}
	return result.Owner, nil
}

// IsRedeemed returns the on-chain redemption flag of a token.
func (g *HTTPGateway) IsRedeemed(ctx context.Context, tokenID int64) (bool, error) {
	var result struct {
		Redeemed bool `json:"redeemed"`
	}
	err := g.call(ctx, "is-redeemed", &tokenRequest{
		Contract: g.config.ContractAddress,
		TokenID:  tokenID,
	}, &result)
	if err != nil {
		return false, err
	}
	return result.Redeemed, nil
}

// Locked returns the on-chain transfer-lock flag of a token.
func (g *HTTPGateway) Locked(ctx context.Context, tokenID int64) (bool, error) {
	var result struct {
		Locked bool `json:"locked"`
	}
	err := g.call(ctx, "locked", &tokenRequest{
		Contract: g.config.ContractAddress,
		TokenID:  tokenID,
	}, &result)
	if err != nil {
		return false, err
	}
	return result.Locked, nil
}

// call POSTs a bridge operation, retrying transport failures and 5xx
// responses. 4xx responses are permanent: the bridge rejected the call.
func (g *HTTPGateway) call(ctx context.Context, op string, payload, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Op: op, Err: err}
	}

	url := fmt.Sprintf("%s/v1/%s", g.config.RPCEndpoint, op)

	err = g.retrier.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Signer-Address", g.config.SignerAddress)

		resp, err := g.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode >= 500:
			return fmt.Errorf("bridge returned %d: %s", resp.StatusCode, respBody)
		case resp.StatusCode >= 400:
			return retry.Permanent(fmt.Errorf("bridge rejected %s: %d %s", op, resp.StatusCode, respBody))
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return retry.Permanent(fmt.Errorf("invalid bridge response: %w", err))
			}
		}
		return nil
	})
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}
