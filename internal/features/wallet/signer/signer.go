package signer

import "context"

// Session is a relay-level session as exposed by the signing agent. The
// account entries are namespace-qualified strings in the form
// <namespace>:<network>:<accountId>.
type Session struct {
	Topic    string
	Accounts []string
}

// TransferResult is the ledger receipt of an executed transfer.
type TransferResult struct {
	TransactionID string
	Status        string
}

// Signer is the opaque capability handed out for transaction execution.
// It is owned by the wallet service and must only be used, never stored,
// by payment code.
type Signer interface {
	// AccountID returns the ledger account the signer acts for.
	AccountID() string
	// Transfer moves amountTinybar from the signer's account to the given
	// account and waits for the delivery receipt. The returned error text
	// is classified by the payment layer, so wallet-originated rejection
	// messages must be passed through unaltered.
	Transfer(ctx context.Context, toAccountID string, amountTinybar int64, memo string) (*TransferResult, error)
}

// AgentConfig is the application identity presented during pairing.
type AgentConfig struct {
	ProjectID   string
	Name        string
	Description string
	URL         string
	Icons       []string
	Network     string
}

// SigningAgent abstracts the external signing-agent relay. The interface is
// deliberately narrow so the rest of the system never depends on relay
// specifics, which differ between relay client versions.
type SigningAgent interface {
	// Initialize establishes the agent against the relay. An unreachable
	// relay is reported as an error; callers may retry.
	Initialize(ctx context.Context, cfg AgentConfig) error
	// Connect opens the interactive pairing flow and blocks until the user
	// approves or abandons it. Only one pairing flow may run at a time.
	Connect(ctx context.Context) (*Session, error)
	// RestoreSession discovers an existing authorized session, trying every
	// surface the relay client exposes. A nil session with nil error means
	// no session exists, which is the expected first-visit outcome.
	RestoreSession(ctx context.Context) (*Session, error)
	// Disconnect tears down all relay-level sessions and purges any cached
	// session artifacts. Stale cached sessions corrupt subsequent pairings.
	Disconnect(ctx context.Context) error
	// CurrentSigner returns the active signer handle, if any.
	CurrentSigner() (Signer, bool)
	// Sessions enumerates sessions currently known to the relay layer.
	Sessions(ctx context.Context) ([]Session, error)
}
