package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mint-portal-backend/internal/features/mint/models"
)

func TestGetStats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mint/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"byRarity": {
				"common": {"available": 900, "total": 1000, "minted": 100},
				"rare": {"available": 90, "total": 100, "minted": 10},
				"mythic": {"available": 1, "total": 1, "minted": 0}
			},
			"totalMinted": 110
		}`))
	}))
	defer srv.Close()

	stats, err := NewClient(srv.URL).GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 110, stats.TotalMinted)
	assert.Equal(t, models.TierStats{Available: 900, Total: 1000, Minted: 100}, stats.ByTier[models.TierCommon])
	// Unknown tier names from the service are dropped, not errors.
	assert.Len(t, stats.ByTier, 2)
}

func TestGetDynamicPricing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mint/dynamic-pricing", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "pricesTinybar": {"common": 2500000000, "rare": 25000000000}}`))
	}))
	defer srv.Close()

	pricing, err := NewClient(srv.URL).GetDynamicPricing(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2500000000), pricing.PriceFor(models.TierCommon))
	assert.Equal(t, int64(25000000000), pricing.PriceFor(models.TierRare))
	assert.False(t, pricing.FetchedAt.IsZero())
}

func TestGetDynamicPricingNotReady(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"success": false}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetDynamicPricing(context.Background())
	require.Error(t, err)
}

func TestVerifyAndMint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/mint/verify-and-mint", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var req VerifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "0.0.5555", req.AccountID)
		assert.Equal(t, "0.0.5555@1700000000.000000001", req.TransactionID)

		w.Write([]byte(`{
			"success": true,
			"nftDetails": [{"tokenId": "0.0.4444", "serialNumber": 42, "metadataTokenId": "7"}]
		}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).VerifyAndMint(context.Background(), VerifyRequest{
		AccountID:     "0.0.5555",
		Tier:          "common",
		Quantity:      1,
		TransactionID: "0.0.5555@1700000000.000000001",
	})
	require.NoError(t, err)
	require.True(t, resp.Success)
	require.Len(t, resp.NFTDetails, 1)
	assert.Equal(t, int64(42), resp.NFTDetails[0].SerialNumber)
}

func TestVerifyAndMintNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"success": false, "error": "ledger query failed"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).VerifyAndMint(context.Background(), VerifyRequest{})
	require.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "ledger query failed", resp.Error)
}

func TestCheckAssociation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token/association/0.0.5555", r.URL.Path)
		w.Write([]byte(`{"associated": true}`))
	}))
	defer srv.Close()

	associated, err := NewClient(srv.URL).CheckAssociation(context.Background(), "0.0.5555")
	require.NoError(t, err)
	assert.True(t, associated)
}
