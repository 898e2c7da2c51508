package http

import (
	"net/http"
	"time"

	"mint-portal-backend/internal/common/cache"
	apperrors "mint-portal-backend/internal/common/errors"
	"mint-portal-backend/internal/common/middleware"
	"mint-portal-backend/internal/features/mint/models"
	"mint-portal-backend/internal/features/mint/models/dto"
	"mint-portal-backend/internal/features/mint/service"
	walletservice "mint-portal-backend/internal/features/wallet/service"
	"mint-portal-backend/internal/platform/mirror"

	"github.com/gin-gonic/gin"
)

const (
	statsCacheKey = "mint:stats_snapshot"
	statsCacheTTL = 30 * time.Second
)

type MintHandler struct {
	orchestrator *service.Orchestrator
	wallet       *walletservice.Service
	mirrorClient *mirror.Client
	cache        *cache.Service
	tokenID      string
}

func NewMintHandler(orchestrator *service.Orchestrator, wallet *walletservice.Service, mirrorClient *mirror.Client, cacheService *cache.Service, tokenID string) *MintHandler {
	return &MintHandler{orchestrator: orchestrator, wallet: wallet, mirrorClient: mirrorClient, cache: cacheService, tokenID: tokenID}
}

func (h *MintHandler) RegisterRoutes(router *gin.RouterGroup) {
	mint := router.Group("/mint")
	{
		mint.POST("", h.mint)
		mint.GET("/stats", h.stats)
		mint.POST("/retry-verification", h.retryVerification)
		mint.GET("/pending", h.pending)
		mint.GET("/nfts", h.holdings)
	}
}

// @Summary Mint NFTs
// @Description Runs the payment-verified mint protocol for the connected wallet: precondition checks, payment through the signer, backend verification
// @Tags mint
// @Accept json
// @Produce json
// @Param input body dto.MintInput true "Tier and quantity"
// @Success 200 {object} dto.MintResponse "Confirmed or silently rejected attempt"
// @Failure 422 {object} middleware.ErrorResponse "Precondition failed"
// @Failure 502 {object} middleware.ErrorResponse "Payment or reconciliation failure"
// @Router /mint [post]
func (h *MintHandler) mint(c *gin.Context) {
	var input dto.MintInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid mint request"))
		return
	}

	tier, err := models.ParseTier(input.Tier)
	if err != nil {
		middleware.SendError(c, apperrors.NewValidationError("tier", err.Error()))
		return
	}

	result, err := h.orchestrator.InitiateMint(c.Request.Context(), tier, input.Quantity)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			middleware.SendError(c, appErr)
		} else {
			middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Mint failed"))
		}
		return
	}

	resp := dto.MintResponse{
		Success: result.Request.State == models.StateConfirmed,
		State:   result.Request.State,
		NFTs:    result.Assets,
	}
	if result.Request.PaymentTransactionID != "" {
		resp.TransactionID = result.Request.PaymentTransactionID
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Supply and pricing snapshot
// @Description Advisory display data; prices are re-validated server-side before any live transaction
// @Tags mint
// @Produce json
// @Success 200 {object} dto.StatsResponse
// @Failure 502 {object} middleware.ErrorResponse
// @Router /mint/stats [get]
func (h *MintHandler) stats(c *gin.Context) {
	// Cached for display only; the orchestrator re-fetches pricing before
	// any live transaction.
	if h.cache != nil {
		var cached dto.StatsResponse
		if err := h.cache.Get(c.Request.Context(), statsCacheKey, &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	supply, pricing, err := h.orchestrator.Stats(c.Request.Context())
	if err != nil {
		middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeMintAPI, "Supply data not available"))
		return
	}

	resp := dto.StatsResponse{Supply: supply, Pricing: pricing}
	if h.cache != nil {
		_ = h.cache.Set(c.Request.Context(), statsCacheKey, resp, statsCacheTTL)
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Retry mint verification
// @Description Re-runs verification for an already-sent payment, identified by its ledger transaction id. Never resubmits payment.
// @Tags mint
// @Accept json
// @Produce json
// @Param input body dto.RetryVerificationInput true "Payment transaction id"
// @Success 200 {object} dto.MintResponse
// @Failure 404 {object} middleware.ErrorResponse "Unknown transaction id"
// @Failure 502 {object} middleware.ErrorResponse "Verification still failing"
// @Router /mint/retry-verification [post]
func (h *MintHandler) retryVerification(c *gin.Context) {
	var input dto.RetryVerificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid retry request"))
		return
	}

	assets, err := h.orchestrator.RetryVerification(c.Request.Context(), input.TransactionID)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); ok {
			middleware.SendError(c, appErr)
		} else {
			middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeInternal, "Verification retry failed"))
		}
		return
	}

	c.JSON(http.StatusOK, dto.MintResponse{
		Success:       true,
		State:         models.StateConfirmed,
		TransactionID: input.TransactionID,
		NFTs:          assets,
	})
}

// @Summary Pending payments
// @Description Payments sent without a confirmed mint, for support and retry
// @Tags mint
// @Produce json
// @Success 200 {array} models.PendingPayment
// @Router /mint/pending [get]
func (h *MintHandler) pending(c *gin.Context) {
	payments, err := h.orchestrator.PendingPayments(c.Request.Context())
	if err != nil {
		middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "Could not list pending payments"))
		return
	}
	c.JSON(http.StatusOK, payments)
}

// @Summary Connected account's NFTs
// @Description Lists serials of the collection token held by the connected account, via the mirror node
// @Tags mint
// @Produce json
// @Success 200 {array} mirror.NFT
// @Failure 401 {object} middleware.ErrorResponse "Wallet not connected"
// @Router /mint/nfts [get]
func (h *MintHandler) holdings(c *gin.Context) {
	session, ok := h.wallet.Session()
	if !ok {
		middleware.SendError(c, apperrors.New(apperrors.ErrCodeWalletNotConnected, "Wallet not connected"))
		return
	}

	nfts, err := h.mirrorClient.GetAccountNFTs(c.Request.Context(), session.AccountID, h.tokenID)
	if err != nil {
		middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeMirrorNode, "Could not list NFTs"))
		return
	}
	c.JSON(http.StatusOK, nfts)
}
