package service

import "errors"

// Custom errors for wallet service
var (
	ErrNotConnected       = errors.New("wallet not connected")
	ErrNotInitialized     = errors.New("signing agent not initialized")
	ErrNoSignerAvailable  = errors.New("no signer available after connection")
	ErrNoAccountInSession = errors.New("failed to get account id from session")
)
