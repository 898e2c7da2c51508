package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrAccountNotFound is returned when the mirror node has no record of the
// queried account.
var ErrAccountNotFound = errors.New("account not found on mirror node")

// Client implements balance and NFT reads via the public mirror node REST
// API. Reads are signer-independent on purpose: routing balance queries
// through the wallet relay is unreliable with some wallet implementations.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient initializes a mirror node REST client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://testnet.mirrornode.hedera.com"
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: &http.Client{Timeout: 8 * time.Second}}
}

// GetAccountBalance returns the spendable balance of the account in
// tinybars (the ledger's smallest unit).
func (c *Client) GetAccountBalance(ctx context.Context, accountID string) (int64, error) {
	var out struct {
		Balance struct {
			Balance int64 `json:"balance"`
		} `json:"balance"`
	}
	if err := c.get(ctx, "/api/v1/accounts/"+url.PathEscape(accountID), &out); err != nil {
		return 0, err
	}
	return out.Balance.Balance, nil
}

// NFT is a single serial of a token held by an account, as reported by the
// mirror node.
type NFT struct {
	TokenID      string `json:"token_id"`
	SerialNumber int64  `json:"serial_number"`
	AccountID    string `json:"account_id"`
	Metadata     string `json:"metadata"` // base64-encoded metadata blob
}

// GetAccountNFTs lists serials of the given token held by the account.
func (c *Client) GetAccountNFTs(ctx context.Context, accountID, tokenID string) ([]NFT, error) {
	var out struct {
		NFTs []NFT `json:"nfts"`
	}
	path := "/api/v1/accounts/" + url.PathEscape(accountID) + "/nfts?token.id=" + url.QueryEscape(tokenID)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.NFTs, nil
}

// GetNFT returns the on-ledger record of a single serial.
func (c *Client) GetNFT(ctx context.Context, tokenID string, serialNumber int64) (*NFT, error) {
	var out NFT
	path := fmt.Sprintf("/api/v1/tokens/%s/nfts/%d", url.PathEscape(tokenID), serialNumber)
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return ErrAccountNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mirror node http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
