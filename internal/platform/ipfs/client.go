package ipfs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Attribute is a single trait of an NFT metadata descriptor.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Metadata is the JSON descriptor served by the content-addressed store.
type Metadata struct {
	Name       string      `json:"name"`
	Image      string      `json:"image"`
	Attributes []Attribute `json:"attributes"`
}

// Client fetches NFT metadata descriptors from an IPFS HTTP gateway.
// Descriptors live under a single collection CID, keyed by metadata token id.
type Client struct {
	gatewayURL  string
	metadataCID string
	httpClient  *http.Client
}

func NewClient(gatewayURL, metadataCID string) *Client {
	if gatewayURL == "" {
		gatewayURL = "https://ipfs.io/ipfs"
	}
	return &Client{
		gatewayURL:  strings.TrimRight(gatewayURL, "/"),
		metadataCID: metadataCID,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// GetMetadata fetches {cid}/{metadataID}.json from the gateway. Image refs
// in ipfs:// form are rewritten to the configured gateway so the UI can
// render them directly.
func (c *Client) GetMetadata(ctx context.Context, metadataID string) (*Metadata, error) {
	url := fmt.Sprintf("%s/%s/%s.json", c.gatewayURL, c.metadataCID, metadataID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
		return nil, fmt.Errorf("ipfs gateway http %d", resp.StatusCode)
	}

	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, err
	}

	if strings.HasPrefix(meta.Image, "ipfs://") {
		meta.Image = c.gatewayURL + "/" + strings.TrimPrefix(meta.Image, "ipfs://")
	}

	return &meta, nil
}
