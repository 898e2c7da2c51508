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

	"mint-portal-backend/internal/features/airdrop/models"
)

// Client proxies the mint backend's airdrop endpoints.
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

// ClaimStatus reports whether the account has already claimed.
func (c *Client) ClaimStatus(ctx context.Context, accountID string) (*models.ClaimStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/airdrop/claim-status/"+url.PathEscape(accountID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("airdrop api http %d", resp.StatusCode)
	}

	var out struct {
		HasClaimed bool `json:"hasClaimed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &models.ClaimStatus{AccountID: accountID, HasClaimed: out.HasClaimed}, nil
}

// Claim requests the airdrop for the account under the given tier.
func (c *Client) Claim(ctx context.Context, accountID, tier string) (*models.ClaimResult, error) {
	body, err := json.Marshal(map[string]string{
		"userAccountId": accountID,
		"tier":          tier,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/airdrop/claim", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var result models.ClaimResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("airdrop api http %d: %w", resp.StatusCode, err)
	}
	return &result, nil
}
