package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mint-portal-backend/internal/features/mint/models"
	walletmodels "mint-portal-backend/internal/features/wallet/models"
	"mint-portal-backend/internal/features/wallet/signer"
)

func testSession(accountID string) *walletmodels.WalletSession {
	return &walletmodels.WalletSession{
		AccountID:   accountID,
		ProviderTag: walletmodels.ProviderWalletConnect,
	}
}

func TestSend(t *testing.T) {
	sig := &signer.FakeSigner{Account: "0.0.5555"}
	attempt, err := NewPaymentSubmitter().Send(context.Background(), testSession("0.0.5555"), sig, "0.0.9000", 250000000)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeSuccess, attempt.Outcome)
	assert.NotEmpty(t, attempt.TransactionID)
	assert.Equal(t, "0.0.5555", attempt.FromAccount)
	assert.Equal(t, "0.0.9000", attempt.ToAccount)
	assert.Equal(t, int64(250000000), attempt.AmountTinybar)
	assert.Equal(t, 1, sig.TransferCount())
}

func TestSendUserRejection(t *testing.T) {
	cases := []string{
		"User Denied Transaction",
		"user rejected the request",
		"Signature REJECTED by wallet",
		"Transaction declined",
		"request cancelled by user",
	}
	for _, message := range cases {
		t.Run(message, func(t *testing.T) {
			sig := &signer.FakeSigner{Account: "0.0.5555", Err: errors.New(message)}
			attempt, err := NewPaymentSubmitter().Send(context.Background(), testSession("0.0.5555"), sig, "0.0.9000", 100)

			// A declined prompt is a quiet outcome, never an error.
			require.NoError(t, err)
			assert.Equal(t, models.OutcomeUserRejected, attempt.Outcome)
			assert.Empty(t, attempt.TransactionID)
			assert.Empty(t, attempt.ErrorDetail)
		})
	}
}

func TestSendGenuineFailure(t *testing.T) {
	sig := &signer.FakeSigner{Account: "0.0.5555", Err: errors.New("Network timeout")}
	attempt, err := NewPaymentSubmitter().Send(context.Background(), testSession("0.0.5555"), sig, "0.0.9000", 100)

	require.NoError(t, err)
	assert.Equal(t, models.OutcomeFailed, attempt.Outcome)
	assert.Equal(t, "Network timeout", attempt.ErrorDetail)
}

func TestSendRejectsNonPositiveAmount(t *testing.T) {
	sig := &signer.FakeSigner{Account: "0.0.5555"}
	submitter := NewPaymentSubmitter()

	for _, amount := range []int64{0, -1, -100000000} {
		_, err := submitter.Send(context.Background(), testSession("0.0.5555"), sig, "0.0.9000", amount)
		require.Error(t, err)
	}
	assert.Equal(t, 0, sig.TransferCount())
}

func TestSendRejectsAccountMismatch(t *testing.T) {
	sig := &signer.FakeSigner{Account: "0.0.1111"}
	_, err := NewPaymentSubmitter().Send(context.Background(), testSession("0.0.5555"), sig, "0.0.9000", 100)
	require.Error(t, err)
	assert.Equal(t, 0, sig.TransferCount())
}

func TestSendRequiresSession(t *testing.T) {
	sig := &signer.FakeSigner{Account: "0.0.5555"}
	submitter := NewPaymentSubmitter()

	_, err := submitter.Send(context.Background(), nil, sig, "0.0.9000", 100)
	require.Error(t, err)

	_, err = submitter.Send(context.Background(), testSession(""), sig, "0.0.9000", 100)
	require.Error(t, err)
}

func TestIsUserRejection(t *testing.T) {
	assert.True(t, isUserRejection("USER DENIED transaction"))
	assert.True(t, isUserRejection("the request was canceled"))
	assert.False(t, isUserRejection("insufficient payer balance"))
	assert.False(t, isUserRejection("connection reset by peer"))
}
