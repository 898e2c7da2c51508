package service

import (
	"context"
	"fmt"
	"strings"

	"mint-portal-backend/internal/common/logger"
	"mint-portal-backend/internal/features/mint/models"
	walletmodels "mint-portal-backend/internal/features/wallet/models"
	"mint-portal-backend/internal/features/wallet/signer"
)

// rejectionPhrases are the known ways wallets phrase a declined signature
// prompt. Matching is case-insensitive substring, so "User Denied
// Transaction" classifies as a rejection while "Network timeout" does not.
var rejectionPhrases = []string{
	"reject",
	"denied",
	"cancelled",
	"canceled",
	"declined",
	"user denied",
	"user rejected",
	"transaction declined",
	"signature rejected",
	"request rejected",
	"user cancelled",
}

const paymentMemo = "Mint Portal Payment"

// PaymentSubmitter builds and submits value transfers through the session
// signer and classifies the outcome. A user declining the prompt in their
// wallet is not an error; only genuine failures are.
type PaymentSubmitter struct{}

func NewPaymentSubmitter() *PaymentSubmitter {
	return &PaymentSubmitter{}
}

// Send moves amountTinybar from the session account to toAccount and waits
// for the delivery receipt. It never returns an error for ordinary
// rejection text; the outcome carries the classification.
func (p *PaymentSubmitter) Send(ctx context.Context, session *walletmodels.WalletSession, sig signer.Signer, toAccount string, amountTinybar int64) (*models.PaymentAttempt, error) {
	if session == nil || session.AccountID == "" {
		return nil, fmt.Errorf("no connected session")
	}
	if amountTinybar <= 0 {
		return nil, fmt.Errorf("invalid amount %d: must be positive", amountTinybar)
	}
	if sig.AccountID() != "" && sig.AccountID() != session.AccountID {
		return nil, fmt.Errorf("signer account %s does not match session account %s", sig.AccountID(), session.AccountID)
	}

	attempt := &models.PaymentAttempt{
		FromAccount:   session.AccountID,
		ToAccount:     toAccount,
		AmountTinybar: amountTinybar,
	}

	logger.Info().
		Str("from", session.AccountID).
		Str("to", toAccount).
		Int64("amount_tinybar", amountTinybar).
		Msg("Submitting transfer")

	result, err := sig.Transfer(ctx, toAccount, amountTinybar, paymentMemo)
	if err != nil {
		if isUserRejection(err.Error()) {
			logger.Info().Msg("User rejected transaction in wallet")
			attempt.Outcome = models.OutcomeUserRejected
			return attempt, nil
		}
		logger.Error().Err(err).Msg("Transfer failed")
		attempt.Outcome = models.OutcomeFailed
		attempt.ErrorDetail = err.Error()
		return attempt, nil
	}

	if result.TransactionID == "" {
		attempt.Outcome = models.OutcomeFailed
		attempt.ErrorDetail = "receipt without transaction id"
		return attempt, nil
	}

	// The transaction id is the sole correlator for verification and must
	// be forwarded verbatim.
	attempt.Outcome = models.OutcomeSuccess
	attempt.TransactionID = result.TransactionID

	logger.Info().
		Str("transaction_id", result.TransactionID).
		Str("status", result.Status).
		Msg("Transfer complete")
	return attempt, nil
}

func isUserRejection(message string) bool {
	lowered := strings.ToLower(message)
	for _, phrase := range rejectionPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
