package ipfs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/bafytest/7.json", r.URL.Path)
		w.Write([]byte(`{
			"name": "Common Warrior #7",
			"image": "ipfs://bafyimg/7.png",
			"attributes": [{"trait_type": "Tier", "value": "common"}]
		}`))
	}))
	defer srv.Close()

	meta, err := NewClient(srv.URL, "bafytest").GetMetadata(context.Background(), "7")
	require.NoError(t, err)

	assert.Equal(t, "Common Warrior #7", meta.Name)
	// ipfs:// image refs are rewritten against the configured gateway.
	assert.Equal(t, srv.URL+"/bafyimg/7.png", meta.Image)
	require.Len(t, meta.Attributes, 1)
	assert.Equal(t, Attribute{TraitType: "Tier", Value: "common"}, meta.Attributes[0])
}

func TestGetMetadataHTTPImagePassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"name": "x", "image": "https://cdn.example.com/7.png"}`))
	}))
	defer srv.Close()

	meta, err := NewClient(srv.URL, "bafytest").GetMetadata(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/7.png", meta.Image)
}

func TestGetMetadataGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bafytest").GetMetadata(context.Background(), "7")
	require.Error(t, err)
}
