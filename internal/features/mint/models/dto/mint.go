package dto

import "mint-portal-backend/internal/features/mint/models"

// MintInput is the user-initiated mint request.
// @Description Mint request payload
type MintInput struct {
	Tier     string `json:"tier" binding:"required" example:"common"`
	Quantity int    `json:"quantity" binding:"required,min=1" example:"1"`
}

// MintResponse reports the terminal state of a mint attempt.
// @Description Result of a mint attempt
type MintResponse struct {
	Success       bool                 `json:"success"`
	State         models.MintState     `json:"state"`
	TransactionID string               `json:"transaction_id,omitempty"`
	NFTs          []models.MintedAsset `json:"nfts,omitempty"`
}

// RetryVerificationInput re-runs verification for an already-sent payment.
type RetryVerificationInput struct {
	TransactionID string `json:"transaction_id" binding:"required" example:"0.0.1@1234.5678"`
}

// StatsResponse is the advisory supply and pricing snapshot for the UI.
type StatsResponse struct {
	Supply  *models.SupplyStats `json:"supply"`
	Pricing *models.Pricing     `json:"pricing,omitempty"`
}
