package models

import (
	"fmt"
	"time"
)

// Tier is a pricing/rarity class of mintable asset.
type Tier string

const (
	TierCommon    Tier = "common"
	TierRare      Tier = "rare"
	TierLegendary Tier = "legendary"
)

// Tiers lists all tiers in ascending rarity order.
var Tiers = []Tier{TierCommon, TierRare, TierLegendary}

// ParseTier validates a tier string from the wire.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierCommon, TierRare, TierLegendary:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// DisplayName returns the marketing name of the tier.
func (t Tier) DisplayName() string {
	switch t {
	case TierCommon:
		return "Common Warrior"
	case TierRare:
		return "Rare Champion"
	case TierLegendary:
		return "Legendary Hero"
	}
	return string(t)
}

// TokenAllocation returns the utility-token allocation granted per NFT.
func (t Tier) TokenAllocation() int64 {
	switch t {
	case TierCommon:
		return 40000
	case TierRare:
		return 300000
	case TierLegendary:
		return 1000000
	}
	return 0
}

// TierStats is the per-tier supply snapshot from the tier/supply service.
type TierStats struct {
	Available int `json:"available"`
	Total     int `json:"total"`
	Minted    int `json:"minted"`
}

// SupplyStats is the full supply snapshot.
type SupplyStats struct {
	ByTier      map[Tier]TierStats `json:"by_tier"`
	TotalMinted int                `json:"total_minted"`
}

// Pricing is a snapshot of per-tier prices in tinybars. Prices are
// denominated dynamically against a volatile exchange rate, so a snapshot
// is advisory for display and must be re-fetched before submission.
type Pricing struct {
	PriceTinybar map[Tier]int64 `json:"price_tinybar"`
	FetchedAt    time.Time      `json:"fetched_at"`
}

// PriceFor returns the tier price, zero when not loaded.
func (p *Pricing) PriceFor(t Tier) int64 {
	if p == nil || p.PriceTinybar == nil {
		return 0
	}
	return p.PriceTinybar[t]
}

// PaymentOutcome classifies the result of a transfer submission.
type PaymentOutcome string

const (
	OutcomeSuccess      PaymentOutcome = "success"
	OutcomeUserRejected PaymentOutcome = "user_rejected"
	OutcomeFailed       PaymentOutcome = "failed"
)

// PaymentAttempt records a single value-transfer submission through the
// signer. Amounts are integral tinybars; floating point is never
// authoritative.
type PaymentAttempt struct {
	FromAccount   string         `json:"from_account"`
	ToAccount     string         `json:"to_account"`
	AmountTinybar int64          `json:"amount_tinybar"`
	Outcome       PaymentOutcome `json:"outcome"`
	TransactionID string         `json:"transaction_id,omitempty"`
	ErrorDetail   string         `json:"error_detail,omitempty"`
}

// MintState is the orchestrator state for one mint request.
type MintState string

const (
	StateIdle                  MintState = "idle"
	StateCheckingPreconditions MintState = "checking_preconditions"
	StateAwaitingPayment       MintState = "awaiting_payment"
	StateVerifyingAndMinting   MintState = "verifying_and_minting"
	StateConfirmed             MintState = "confirmed"
	StateRejected              MintState = "rejected"
	StateFailed                MintState = "failed"
)

// MintRequest is one user-confirmed mint attempt. It lives only for the
// duration of the attempt; confirmation authority is the backend service.
type MintRequest struct {
	ID                   string    `json:"id"`
	AccountID            string    `json:"account_id"`
	Tier                 Tier      `json:"tier"`
	Quantity             int       `json:"quantity"`
	UnitPriceTinybar     int64     `json:"unit_price_tinybar"`
	PaymentTransactionID string    `json:"payment_transaction_id,omitempty"`
	State                MintState `json:"state"`
	CreatedAt            time.Time `json:"created_at"`
}

// TotalTinybar is the authoritative amount transferred for the request.
func (r *MintRequest) TotalTinybar() int64 {
	return r.UnitPriceTinybar * int64(r.Quantity)
}

// MintedAsset is a confirmed NFT record, immutable once received.
type MintedAsset struct {
	TokenID      string         `json:"token_id"`
	SerialNumber int64          `json:"serial_number"`
	Metadata     *AssetMetadata `json:"metadata"`
}

// AssetMetadata is the display descriptor of a minted asset.
type AssetMetadata struct {
	Name       string           `json:"name"`
	Image      string           `json:"image"`
	Attributes []AssetAttribute `json:"attributes"`
}

type AssetAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// PendingPayment is the durable record of a payment whose mint has not been
// confirmed yet. It must never be forgotten while unresolved, or funds risk
// being spent without a corresponding mint.
type PendingPayment struct {
	TransactionID    string    `json:"transaction_id"`
	AccountID        string    `json:"account_id"`
	Tier             Tier      `json:"tier"`
	Quantity         int       `json:"quantity"`
	UnitPriceTinybar int64     `json:"unit_price_tinybar"`
	CreatedAt        time.Time `json:"created_at"`
	Attempts         int       `json:"attempts"`
}

// IncrementQuantity steps the quantity up, clamped at max.
func IncrementQuantity(quantity, max int) int {
	if quantity >= max {
		return quantity
	}
	return quantity + 1
}

// DecrementQuantity steps the quantity down, clamped at 1.
func DecrementQuantity(quantity int) int {
	if quantity <= 1 {
		return quantity
	}
	return quantity - 1
}
