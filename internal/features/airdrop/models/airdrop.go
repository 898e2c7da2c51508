package models

// ClaimStatus reports whether the account has already claimed its airdrop.
type ClaimStatus struct {
	AccountID  string `json:"account_id"`
	HasClaimed bool   `json:"has_claimed"`
}

// ClaimInput selects the eligibility tier to claim under.
type ClaimInput struct {
	Tier string `json:"tier" binding:"required" example:"tier1"`
}

// ClaimedNFT is one asset granted by a successful claim.
type ClaimedNFT struct {
	TokenID      string `json:"token_id"`
	SerialNumber int64  `json:"serial_number"`
	Name         string `json:"name,omitempty"`
}

// ClaimResult is the backend's claim outcome.
type ClaimResult struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	NFTs    []ClaimedNFT `json:"nfts,omitempty"`
	Error   string       `json:"error,omitempty"`
}
