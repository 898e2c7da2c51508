package service

import (
	"context"

	"mint-portal-backend/internal/features/mint/client"
	"mint-portal-backend/internal/features/mint/models"
	walletmodels "mint-portal-backend/internal/features/wallet/models"
	"mint-portal-backend/internal/features/wallet/signer"
	"mint-portal-backend/internal/platform/ipfs"
)

// WalletService is the slice of the wallet connector the orchestrator
// reads. The session is process-wide state; only the wallet service itself
// may mutate it.
type WalletService interface {
	Session() (*walletmodels.WalletSession, bool)
	Signer() (signer.Signer, error)
	Balance(ctx context.Context) (int64, error)
}

// MintAPI is the external mint backend contract.
type MintAPI interface {
	GetStats(ctx context.Context) (*models.SupplyStats, error)
	GetDynamicPricing(ctx context.Context) (*models.Pricing, error)
	VerifyAndMint(ctx context.Context, req client.VerifyRequest) (*client.VerifyResponse, error)
	CheckAssociation(ctx context.Context, accountID string) (bool, error)
}

// MetadataFetcher resolves display metadata from the content-addressed
// store.
type MetadataFetcher interface {
	GetMetadata(ctx context.Context, metadataID string) (*ipfs.Metadata, error)
}
