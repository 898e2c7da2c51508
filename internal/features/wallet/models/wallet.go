package models

import "time"

// ProviderTag identifies which external signer mediates a session.
type ProviderTag string

const (
	ProviderWalletConnect ProviderTag = "walletconnect"
)

// WalletSession is the single active connection to an external signer.
// At most one exists per process; only the wallet service mutates it.
type WalletSession struct {
	AccountID   string      `json:"account_id"`
	ProviderTag ProviderTag `json:"provider"`
	Topic       string      `json:"topic,omitempty"`
	// Restored is true when the session was rehydrated from a prior run
	// rather than freshly approved by the user.
	Restored    bool      `json:"restored"`
	ConnectedAt time.Time `json:"connected_at"`
}

// SavedSession is the durable record driving restore attempts on startup.
type SavedSession struct {
	AccountID   string      `json:"account_id"`
	ProviderTag ProviderTag `json:"provider"`
	SavedAt     time.Time   `json:"saved_at"`
}

// StatusResponse reports the wallet connection state to the UI.
// @Description Wallet connection status
type StatusResponse struct {
	Connected bool   `json:"connected"`
	AccountID string `json:"account_id,omitempty"`
	Provider  string `json:"provider,omitempty"`
	Restored  bool   `json:"restored,omitempty"`
}

// ConnectResponse is returned once pairing has been approved.
type ConnectResponse struct {
	AccountID string `json:"account_id"`
	Provider  string `json:"provider"`
	Balance   int64  `json:"balance_tinybar"`
}

// BalanceResponse carries the spendable balance in tinybars.
type BalanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance_tinybar"`
}
