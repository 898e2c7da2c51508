package signer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// FakeSigner deterministically emulates transfer execution in tests.
type FakeSigner struct {
	Account string
	// Err, when set, is returned from Transfer as-is. Rejection phrasing in
	// its message exercises the outcome classification path.
	Err error

	mu        sync.Mutex
	transfers int
}

func (s *FakeSigner) AccountID() string {
	return s.Account
}

func (s *FakeSigner) Transfer(_ context.Context, toAccountID string, amountTinybar int64, memo string) (*TransferResult, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	s.transfers++
	n := s.transfers
	s.mu.Unlock()

	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%s:%d:%s:%d", s.Account, toAccountID, amountTinybar, memo, n)))
	return &TransferResult{
		TransactionID: s.Account + "@" + hex.EncodeToString(sum[:6]),
		Status:        "SUCCESS",
	}, nil
}

// TransferCount reports how many transfers were executed.
func (s *FakeSigner) TransferCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transfers
}

// FakeAgent is a scriptable SigningAgent for tests.
type FakeAgent struct {
	InitErr        error
	ConnectSession *Session
	ConnectErr     error
	StoredSessions []Session
	SessionsErr    error
	Signer         Signer

	mu            sync.Mutex
	initialized   bool
	disconnected  int
	connectCalls  int
	currentSigner Signer
}

func (a *FakeAgent) Initialize(_ context.Context, _ AgentConfig) error {
	if a.InitErr != nil {
		return a.InitErr
	}
	a.mu.Lock()
	a.initialized = true
	a.mu.Unlock()
	return nil
}

func (a *FakeAgent) Connect(_ context.Context) (*Session, error) {
	a.mu.Lock()
	a.connectCalls++
	a.mu.Unlock()
	if a.ConnectErr != nil {
		return nil, a.ConnectErr
	}
	if a.ConnectSession == nil {
		return nil, fmt.Errorf("pairing abandoned")
	}
	a.mu.Lock()
	a.currentSigner = a.Signer
	a.mu.Unlock()
	return a.ConnectSession, nil
}

func (a *FakeAgent) RestoreSession(_ context.Context) (*Session, error) {
	if len(a.StoredSessions) == 0 {
		return nil, nil
	}
	s := a.StoredSessions[0]
	a.mu.Lock()
	a.currentSigner = a.Signer
	a.mu.Unlock()
	return &s, nil
}

func (a *FakeAgent) Disconnect(_ context.Context) error {
	a.mu.Lock()
	a.disconnected++
	a.currentSigner = nil
	a.StoredSessions = nil
	a.mu.Unlock()
	return nil
}

func (a *FakeAgent) CurrentSigner() (Signer, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.currentSigner == nil {
		return nil, false
	}
	return a.currentSigner, true
}

func (a *FakeAgent) Sessions(_ context.Context) ([]Session, error) {
	if a.SessionsErr != nil {
		return nil, a.SessionsErr
	}
	return a.StoredSessions, nil
}

// DisconnectCount reports how many times Disconnect was called.
func (a *FakeAgent) DisconnectCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.disconnected
}

// ConnectCount reports how many pairing flows were opened.
func (a *FakeAgent) ConnectCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.connectCalls
}
