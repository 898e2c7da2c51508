package service

import "errors"

// Custom errors for mint service
var (
	ErrMintInFlight    = errors.New("a mint attempt is already in flight for this account")
	ErrPricingNotReady = errors.New("tier pricing not available")
	ErrUnknownPayment  = errors.New("no pending payment for transaction id")
)
