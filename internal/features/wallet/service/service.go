package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"mint-portal-backend/internal/common/logger"
	"mint-portal-backend/internal/features/wallet/models"
	"mint-portal-backend/internal/features/wallet/repository"
	"mint-portal-backend/internal/features/wallet/signer"
)

// BalanceReader reads spendable balances without going through the signer.
type BalanceReader interface {
	GetAccountBalance(ctx context.Context, accountID string) (int64, error)
}

// Service owns the single external signer connection and is the only
// component allowed to mutate the wallet session.
type Service struct {
	agent    signer.SigningAgent
	store    repository.SessionStore
	balances BalanceReader
	cfg      signer.AgentConfig

	// connMu serializes connect and restore. The pairing flow is a global
	// singleton at the relay, so concurrent attempts corrupt each other.
	connMu sync.Mutex

	mu          sync.RWMutex
	session     *models.WalletSession
	initialized bool
}

func NewService(agent signer.SigningAgent, store repository.SessionStore, balances BalanceReader, cfg signer.AgentConfig) *Service {
	return &Service{agent: agent, store: store, balances: balances, cfg: cfg}
}

// Initialize establishes the connector against the relay. Failure is
// reported to the caller, never fatal; a retry is expected once the relay
// is reachable. When the relay already holds an authorized session for this
// application identity, it is adopted without fresh user approval.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.agent.Initialize(ctx, s.cfg); err != nil {
		logger.Warn().Err(err).Msg("Signing agent initialization failed")
		return err
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	// A fresh client registration carries no signer; the relay may still
	// hold an authorized session from a prior run, which must be adopted
	// without fresh user approval.
	accountID := ""
	if sig, ok := s.agent.CurrentSigner(); ok {
		accountID = sig.AccountID()
	} else if relaySession, err := s.agent.RestoreSession(ctx); err == nil && relaySession != nil {
		accountID = parseAccountID(relaySession)
		if accountID == "" {
			if sig, ok := s.agent.CurrentSigner(); ok {
				accountID = sig.AccountID()
			}
		}
	}

	if accountID != "" {
		s.setSession(&models.WalletSession{
			AccountID:   accountID,
			ProviderTag: models.ProviderWalletConnect,
			Restored:    true,
			ConnectedAt: time.Now(),
		})
		logger.Info().Str("account_id", accountID).Msg("Session auto-restored during init")
	}

	return nil
}

// Connect opens the interactive pairing flow and blocks until the user
// approves or abandons it. Any stale relay session is torn down first so
// the pairing starts from a clean slate.
func (s *Service) Connect(ctx context.Context) (*models.WalletSession, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if !s.isInitialized() {
		return nil, ErrNotInitialized
	}

	// Pairing must start from a clean slate whether or not any sessions are
	// currently visible; teardown is idempotent and best-effort.
	if err := s.agent.Disconnect(ctx); err != nil {
		logger.Warn().Err(err).Msg("Could not clear stale sessions before pairing")
	}

	relaySession, err := s.agent.Connect(ctx)
	if err != nil {
		return nil, err
	}

	accountID := parseAccountID(relaySession)
	if accountID == "" {
		return nil, ErrNoAccountInSession
	}
	if _, ok := s.agent.CurrentSigner(); !ok {
		return nil, ErrNoSignerAvailable
	}

	session := &models.WalletSession{
		AccountID:   accountID,
		ProviderTag: models.ProviderWalletConnect,
		Topic:       relaySession.Topic,
		ConnectedAt: time.Now(),
	}
	s.setSession(session)

	if err := s.store.Save(ctx, &models.SavedSession{
		AccountID:   accountID,
		ProviderTag: models.ProviderWalletConnect,
		SavedAt:     time.Now(),
	}); err != nil {
		logger.Warn().Err(err).Msg("Could not persist session record")
	}

	logger.Info().Str("account_id", accountID).Msg("Wallet connected")
	return session, nil
}

// RestoreSession attempts to rehydrate a prior session. A false result with
// nil error is the expected outcome on first visit, not a failure.
func (s *Service) RestoreSession(ctx context.Context) (bool, error) {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	if !s.isInitialized() {
		return false, ErrNotInitialized
	}

	relaySession, err := s.agent.RestoreSession(ctx)
	if err != nil {
		return false, err
	}
	if relaySession == nil {
		// Nothing to restore; drop the stale saved record so the next
		// startup does not retry a dead session.
		if err := s.store.Clear(ctx); err != nil {
			logger.Warn().Err(err).Msg("Could not clear saved session record")
		}
		return false, nil
	}

	accountID := parseAccountID(relaySession)
	if accountID == "" {
		if sig, ok := s.agent.CurrentSigner(); ok {
			accountID = sig.AccountID()
		}
	}
	if accountID == "" {
		return false, nil
	}

	session := &models.WalletSession{
		AccountID:   accountID,
		ProviderTag: models.ProviderWalletConnect,
		Topic:       relaySession.Topic,
		Restored:    true,
		ConnectedAt: time.Now(),
	}
	s.setSession(session)

	if err := s.store.Save(ctx, &models.SavedSession{
		AccountID:   accountID,
		ProviderTag: models.ProviderWalletConnect,
		SavedAt:     time.Now(),
	}); err != nil {
		logger.Warn().Err(err).Msg("Could not persist session record")
	}

	logger.Info().Str("account_id", accountID).Msg("Session restored")
	return true, nil
}

// Bootstrap runs the startup restore path: a saved session record triggers
// a restore attempt, and a successful restore is followed by exactly one
// balance read to warm the wallet state.
func (s *Service) Bootstrap(ctx context.Context) {
	saved, err := s.store.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not load saved session record")
		return
	}
	if saved == nil && !s.hasSession() {
		logger.Info().Msg("No saved session found")
		return
	}

	if !s.hasSession() {
		restored, err := s.RestoreSession(ctx)
		if err != nil || !restored {
			logger.Info().Err(err).Msg("Saved session could not be restored")
			return
		}
	}

	balance, err := s.Balance(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Balance read after restore failed")
		return
	}
	logger.Info().Int64("balance_tinybar", balance).Msg("Wallet state restored")
}

// Disconnect is best-effort: the remote teardown may fail, local state is
// always left clean.
func (s *Service) Disconnect(ctx context.Context) {
	if err := s.agent.Disconnect(ctx); err != nil {
		logger.Warn().Err(err).Msg("Relay disconnect failed")
	}
	s.setSession(nil)
	if err := s.store.Clear(ctx); err != nil {
		logger.Warn().Err(err).Msg("Could not clear saved session record")
	}
	logger.Info().Msg("Wallet disconnected")
}

// IsConnected checks local state first, then falls back to relay-level
// enumeration since local state can desync from the relay during
// restoration races.
func (s *Service) IsConnected(ctx context.Context) bool {
	if s.hasSession() {
		return true
	}
	sessions, err := s.agent.Sessions(ctx)
	if err != nil {
		return false
	}
	return len(sessions) > 0
}

// Session returns the active wallet session, if any.
func (s *Service) Session() (*models.WalletSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, false
	}
	copied := *s.session
	return &copied, true
}

// Signer exposes the signer handle as an opaque capability for payment
// submission. Callers must not retain it across requests.
func (s *Service) Signer() (signer.Signer, error) {
	if !s.hasSession() {
		return nil, ErrNotConnected
	}
	sig, ok := s.agent.CurrentSigner()
	if !ok {
		return nil, ErrNoSignerAvailable
	}
	return sig, nil
}

// Balance reads the connected account's balance in tinybars through the
// mirror node rather than the signer.
func (s *Service) Balance(ctx context.Context) (int64, error) {
	session, ok := s.Session()
	if !ok {
		return 0, ErrNotConnected
	}
	return s.balances.GetAccountBalance(ctx, session.AccountID)
}

func (s *Service) setSession(session *models.WalletSession) {
	s.mu.Lock()
	s.session = session
	s.mu.Unlock()
}

func (s *Service) hasSession() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session != nil && s.session.AccountID != ""
}

func (s *Service) isInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// parseAccountID extracts the account id from the first namespace-qualified
// account string, e.g. "hedera:testnet:0.0.5555" -> "0.0.5555".
func parseAccountID(s *signer.Session) string {
	if s == nil || len(s.Accounts) == 0 {
		return ""
	}
	parts := strings.Split(s.Accounts[0], ":")
	return parts[len(parts)-1]
}
