package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mint-portal-backend/internal/features/mint/models"
)

// Client talks to the external mint backend: tier/supply stats, dynamic
// pricing, payment verification and the token-association gate.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetStats fetches the per-tier supply snapshot.
func (c *Client) GetStats(ctx context.Context) (*models.SupplyStats, error) {
	var out struct {
		Success  bool `json:"success"`
		ByRarity map[string]struct {
			Available int `json:"available"`
			Total     int `json:"total"`
			Minted    int `json:"minted"`
		} `json:"byRarity"`
		TotalMinted int `json:"totalMinted"`
	}
	if err := c.get(ctx, "/mint/stats", &out); err != nil {
		return nil, err
	}
	if !out.Success {
		return nil, fmt.Errorf("stats not available")
	}

	stats := &models.SupplyStats{ByTier: make(map[models.Tier]models.TierStats), TotalMinted: out.TotalMinted}
	for name, s := range out.ByRarity {
		tier, err := models.ParseTier(name)
		if err != nil {
			continue
		}
		stats.ByTier[tier] = models.TierStats{Available: s.Available, Total: s.Total, Minted: s.Minted}
	}
	return stats, nil
}

// GetDynamicPricing fetches the live exchange-rate-derived price per tier.
// The snapshot carries its fetch time; consumers must re-fetch before any
// live transaction.
func (c *Client) GetDynamicPricing(ctx context.Context) (*models.Pricing, error) {
	var out struct {
		Success      bool             `json:"success"`
		PriceTinybar map[string]int64 `json:"pricesTinybar"`
	}
	if err := c.get(ctx, "/mint/dynamic-pricing", &out); err != nil {
		return nil, err
	}
	if !out.Success || len(out.PriceTinybar) == 0 {
		return nil, fmt.Errorf("pricing not ready")
	}

	pricing := &models.Pricing{PriceTinybar: make(map[models.Tier]int64), FetchedAt: time.Now()}
	for name, price := range out.PriceTinybar {
		tier, err := models.ParseTier(name)
		if err != nil {
			continue
		}
		pricing.PriceTinybar[tier] = price
	}
	return pricing, nil
}

// VerifyRequest correlates an on-chain payment with an off-chain mint.
type VerifyRequest struct {
	AccountID     string `json:"accountId"`
	Tier          string `json:"tier"`
	Quantity      int    `json:"quantity"`
	TransactionID string `json:"transactionId"`
}

// NFTDetail is one minted-asset record from the verification service.
type NFTDetail struct {
	TokenID         string `json:"tokenId"`
	SerialNumber    int64  `json:"serialNumber"`
	MetadataTokenID string `json:"metadataTokenId,omitempty"`
}

// VerifyResponse is the verification service's wire response.
type VerifyResponse struct {
	Success    bool        `json:"success"`
	NFTDetails []NFTDetail `json:"nftDetails,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// VerifyAndMint submits proof of payment and asks the backend to mint.
// Non-2xx responses and success:false are surfaced uniformly through the
// returned response so callers treat them as one reconciliation boundary.
func (c *Client) VerifyAndMint(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mint/verify-and-mint", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("verification service http %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		out.Success = false
		if out.Error == "" {
			out.Error = fmt.Sprintf("verification service http %d", resp.StatusCode)
		}
	}
	return &out, nil
}

// CheckAssociation reports whether the account has associated with the NFT
// token, a ledger prerequisite consulted before payment.
func (c *Client) CheckAssociation(ctx context.Context, accountID string) (bool, error) {
	var out struct {
		Associated bool `json:"associated"`
	}
	if err := c.get(ctx, "/token/association/"+url.PathEscape(accountID), &out); err != nil {
		return false, err
	}
	return out.Associated, nil
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
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("mint api http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
