package http

import (
	"errors"
	"net/http"

	apperrors "mint-portal-backend/internal/common/errors"
	"mint-portal-backend/internal/common/middleware"
	"mint-portal-backend/internal/features/wallet/models"
	"mint-portal-backend/internal/features/wallet/service"
	"mint-portal-backend/internal/platform/mirror"

	"github.com/gin-gonic/gin"
)

type WalletHandler struct {
	service *service.Service
}

func NewWalletHandler(service *service.Service) *WalletHandler {
	return &WalletHandler{service: service}
}

func (h *WalletHandler) RegisterRoutes(router *gin.RouterGroup) {
	wallet := router.Group("/wallet")
	{
		wallet.POST("/connect", h.connect)
		wallet.POST("/restore", h.restore)
		wallet.POST("/disconnect", h.disconnect)
		wallet.GET("/status", h.status)
		wallet.GET("/balance", h.balance)
	}
}

// @Summary Connect wallet
// @Description Opens the pairing flow against the signing agent and waits until the user approves it in their wallet
// @Tags wallet
// @Produce json
// @Success 200 {object} models.ConnectResponse "Established session"
// @Failure 502 {object} middleware.ErrorResponse "Relay or pairing failure"
// @Router /wallet/connect [post]
func (h *WalletHandler) connect(c *gin.Context) {
	session, err := h.service.Connect(c.Request.Context())
	if err != nil {
		middleware.SendError(c, connectError(err))
		return
	}

	balance, err := h.service.Balance(c.Request.Context())
	if err != nil {
		// Connection stands even when the first balance read fails.
		balance = 0
	}

	c.JSON(http.StatusOK, models.ConnectResponse{
		AccountID: session.AccountID,
		Provider:  string(session.ProviderTag),
		Balance:   balance,
	})
}

// @Summary Restore wallet session
// @Description Attempts to rehydrate a previously approved session; a miss is a normal outcome, not an error
// @Tags wallet
// @Produce json
// @Success 200 {object} models.StatusResponse "Restore outcome"
// @Router /wallet/restore [post]
func (h *WalletHandler) restore(c *gin.Context) {
	restored, err := h.service.RestoreSession(c.Request.Context())
	if err != nil {
		middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeRelayUnavailable, "Session restore failed"))
		return
	}

	resp := models.StatusResponse{Connected: restored, Restored: restored}
	if session, ok := h.service.Session(); ok {
		resp.AccountID = session.AccountID
		resp.Provider = string(session.ProviderTag)
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Disconnect wallet
// @Description Tears down the relay session and clears the saved session record; always succeeds locally
// @Tags wallet
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /wallet/disconnect [post]
func (h *WalletHandler) disconnect(c *gin.Context) {
	h.service.Disconnect(c.Request.Context())
	c.JSON(http.StatusOK, models.StatusResponse{Connected: false})
}

// @Summary Wallet status
// @Tags wallet
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /wallet/status [get]
func (h *WalletHandler) status(c *gin.Context) {
	resp := models.StatusResponse{Connected: h.service.IsConnected(c.Request.Context())}
	if session, ok := h.service.Session(); ok {
		resp.AccountID = session.AccountID
		resp.Provider = string(session.ProviderTag)
		resp.Restored = session.Restored
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Wallet balance
// @Description Reads the connected account's balance from the mirror node in tinybars
// @Tags wallet
// @Produce json
// @Success 200 {object} models.BalanceResponse
// @Failure 401 {object} middleware.ErrorResponse "Wallet not connected"
// @Failure 404 {object} middleware.ErrorResponse "Account unknown to the ledger"
// @Router /wallet/balance [get]
func (h *WalletHandler) balance(c *gin.Context) {
	balance, err := h.service.Balance(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotConnected):
			middleware.SendError(c, apperrors.New(apperrors.ErrCodeWalletNotConnected, "Wallet not connected"))
		case errors.Is(err, mirror.ErrAccountNotFound):
			middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeAccountNotFound, "Account not found"))
		default:
			middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeMirrorNode, "Balance query failed"))
		}
		return
	}

	session, _ := h.service.Session()
	c.JSON(http.StatusOK, models.BalanceResponse{AccountID: session.AccountID, Balance: balance})
}

func connectError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, service.ErrNoSignerAvailable):
		return apperrors.Wrap(err, apperrors.ErrCodeNoSignerAvailable, "No signer available after connection")
	case errors.Is(err, service.ErrNoAccountInSession):
		return apperrors.Wrap(err, apperrors.ErrCodeNoAccountInSession, "No account id in approved session")
	case errors.Is(err, service.ErrNotInitialized):
		return apperrors.Wrap(err, apperrors.ErrCodeRelayUnavailable, "Signing agent not initialized")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeRelayUnavailable, "Wallet connection failed")
	}
}
