package signer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"mint-portal-backend/internal/common/logger"
)

const (
	pairingPollInterval = 2 * time.Second
	pairingTimeout      = 5 * time.Minute
)

// RelayAgent implements SigningAgent against a signing-agent relay bridge
// over HTTP. Sessions approved in the user's wallet are surfaced by the
// bridge; transaction requests are forwarded to the wallet for signature
// and execution.
type RelayAgent struct {
	baseURL    string
	httpClient *http.Client

	mu       sync.Mutex
	clientID string
	session  *Session
	signer   *relaySigner
}

func NewRelayAgent(baseURL string) *RelayAgent {
	return &RelayAgent{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (a *RelayAgent) Initialize(ctx context.Context, cfg AgentConfig) error {
	body := map[string]interface{}{
		"projectId": cfg.ProjectID,
		"network":   cfg.Network,
		"metadata": map[string]interface{}{
			"name":        cfg.Name,
			"description": cfg.Description,
			"url":         cfg.URL,
			"icons":       cfg.Icons,
		},
	}

	var out struct {
		ClientID string `json:"clientId"`
	}
	if err := a.post(ctx, "/v1/clients", body, &out); err != nil {
		return fmt.Errorf("relay init: %w", err)
	}
	if out.ClientID == "" {
		return fmt.Errorf("relay init: empty client id")
	}

	a.mu.Lock()
	a.clientID = out.ClientID
	a.mu.Unlock()
	return nil
}

func (a *RelayAgent) Connect(ctx context.Context) (*Session, error) {
	clientID, err := a.requireClient()
	if err != nil {
		return nil, err
	}

	var pairing struct {
		Topic string `json:"topic"`
		URI   string `json:"uri"`
	}
	if err := a.post(ctx, "/v1/clients/"+clientID+"/pairings", nil, &pairing); err != nil {
		return nil, fmt.Errorf("open pairing: %w", err)
	}
	if pairing.URI == "" {
		return nil, fmt.Errorf("failed to generate connection URI")
	}

	logger.Info().Str("topic", pairing.Topic).Msg("Pairing opened, waiting for approval")

	// Suspend until the user acts in their wallet or the flow times out.
	deadline := time.Now().Add(pairingTimeout)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pairingPollInterval):
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("pairing approval timed out")
		}

		var st struct {
			Status  string   `json:"status"`
			Session *Session `json:"session,omitempty"`
		}
		if err := a.get(ctx, "/v1/clients/"+clientID+"/pairings/"+pairing.Topic, &st); err != nil {
			return nil, fmt.Errorf("pairing status: %w", err)
		}

		switch st.Status {
		case "approved":
			if st.Session == nil {
				return nil, fmt.Errorf("pairing approved without session")
			}
			a.adopt(st.Session)
			return st.Session, nil
		case "rejected", "expired":
			return nil, fmt.Errorf("pairing %s", st.Status)
		}
	}
}

// RestoreSession tries every discovery surface the bridge exposes. Older
// bridge versions only serve the sign-client store, newest ones only the
// session store, so both are probed before falling back to direct signer
// enumeration.
func (a *RelayAgent) RestoreSession(ctx context.Context) (*Session, error) {
	clientID, err := a.requireClient()
	if err != nil {
		return nil, err
	}

	for _, path := range []string{
		"/v1/clients/" + clientID + "/sessions",
		"/v1/clients/" + clientID + "/sign/sessions",
	} {
		var out struct {
			Sessions []Session `json:"sessions"`
		}
		if err := a.get(ctx, path, &out); err != nil {
			logger.Debug().Str("path", path).Err(err).Msg("Session store probe failed")
			continue
		}
		if len(out.Sessions) > 0 {
			s := out.Sessions[0]
			a.adopt(&s)
			return &s, nil
		}
	}

	// Last resort: the bridge may expose live signers without a session
	// record.
	var signers struct {
		Signers []struct {
			AccountID string `json:"accountId"`
			Topic     string `json:"topic"`
		} `json:"signers"`
	}
	if err := a.get(ctx, "/v1/clients/"+clientID+"/signers", &signers); err == nil && len(signers.Signers) > 0 {
		s := &Session{Topic: signers.Signers[0].Topic, Accounts: []string{signers.Signers[0].AccountID}}
		a.adopt(s)
		return s, nil
	}

	return nil, nil
}

func (a *RelayAgent) Disconnect(ctx context.Context) error {
	clientID, err := a.requireClient()
	if err != nil {
		return err
	}

	// Drop cached session state before the remote call so a failed
	// teardown can not leave a stale local session behind.
	a.mu.Lock()
	a.session = nil
	a.signer = nil
	a.mu.Unlock()

	if err := a.post(ctx, "/v1/clients/"+clientID+"/disconnect-all", nil, nil); err != nil {
		return fmt.Errorf("relay disconnect: %w", err)
	}
	return nil
}

func (a *RelayAgent) CurrentSigner() (Signer, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.signer == nil {
		return nil, false
	}
	return a.signer, true
}

func (a *RelayAgent) Sessions(ctx context.Context) ([]Session, error) {
	clientID, err := a.requireClient()
	if err != nil {
		return nil, err
	}

	var out struct {
		Sessions []Session `json:"sessions"`
	}
	if err := a.get(ctx, "/v1/clients/"+clientID+"/sessions", &out); err != nil {
		return nil, err
	}
	return out.Sessions, nil
}

func (a *RelayAgent) adopt(s *Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.session = s
	accountID := ""
	if len(s.Accounts) > 0 {
		parts := strings.Split(s.Accounts[0], ":")
		accountID = parts[len(parts)-1]
	}
	a.signer = &relaySigner{agent: a, topic: s.Topic, accountID: accountID}
}

func (a *RelayAgent) requireClient() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.clientID == "" {
		return "", fmt.Errorf("relay agent not initialized")
	}
	return a.clientID, nil
}

// relaySigner executes transfers through the relay bridge, which forwards
// them to the user's wallet for signature.
type relaySigner struct {
	agent     *RelayAgent
	topic     string
	accountID string
}

func (s *relaySigner) AccountID() string {
	return s.accountID
}

func (s *relaySigner) Transfer(ctx context.Context, toAccountID string, amountTinybar int64, memo string) (*TransferResult, error) {
	clientID, err := s.agent.requireClient()
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"to":            toAccountID,
		"amountTinybar": amountTinybar,
		"memo":          memo,
	}

	var out struct {
		TransactionID string `json:"transactionId"`
		Status        string `json:"status"`
	}
	path := "/v1/clients/" + clientID + "/sessions/" + s.topic + "/transfer"
	if err := s.agent.post(ctx, path, body, &out); err != nil {
		return nil, err
	}
	return &TransferResult{TransactionID: out.TransactionID, Status: out.Status}, nil
}

func (a *RelayAgent) post(ctx context.Context, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req, out)
}

func (a *RelayAgent) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	return a.do(req, out)
}

func (a *RelayAgent) do(req *http.Request, out interface{}) error {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			// Wallet-originated messages (including rejections) must reach
			// the payment layer verbatim.
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("relay bridge http %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
