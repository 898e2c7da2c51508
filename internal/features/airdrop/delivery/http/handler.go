package http

import (
	"net/http"

	apperrors "mint-portal-backend/internal/common/errors"
	"mint-portal-backend/internal/common/middleware"
	"mint-portal-backend/internal/features/airdrop/client"
	"mint-portal-backend/internal/features/airdrop/models"
	walletservice "mint-portal-backend/internal/features/wallet/service"

	"github.com/gin-gonic/gin"
)

type AirdropHandler struct {
	client *client.Client
	wallet *walletservice.Service
}

func NewAirdropHandler(client *client.Client, wallet *walletservice.Service) *AirdropHandler {
	return &AirdropHandler{client: client, wallet: wallet}
}

func (h *AirdropHandler) RegisterRoutes(router *gin.RouterGroup) {
	airdrop := router.Group("/airdrop")
	{
		airdrop.GET("/claim-status", h.claimStatus)
		airdrop.POST("/claim", h.claim)
	}
}

// @Summary Airdrop claim status
// @Tags airdrop
// @Produce json
// @Success 200 {object} models.ClaimStatus
// @Failure 401 {object} middleware.ErrorResponse "Wallet not connected"
// @Router /airdrop/claim-status [get]
func (h *AirdropHandler) claimStatus(c *gin.Context) {
	session, ok := h.wallet.Session()
	if !ok {
		middleware.SendError(c, apperrors.New(apperrors.ErrCodeWalletNotConnected, "Wallet not connected"))
		return
	}

	status, err := h.client.ClaimStatus(c.Request.Context(), session.AccountID)
	if err != nil {
		middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeMintAPI, "Claim status check failed"))
		return
	}
	c.JSON(http.StatusOK, status)
}

// @Summary Claim airdrop
// @Tags airdrop
// @Accept json
// @Produce json
// @Param input body models.ClaimInput true "Eligibility tier"
// @Success 200 {object} models.ClaimResult
// @Failure 401 {object} middleware.ErrorResponse "Wallet not connected"
// @Router /airdrop/claim [post]
func (h *AirdropHandler) claim(c *gin.Context) {
	session, ok := h.wallet.Session()
	if !ok {
		middleware.SendError(c, apperrors.New(apperrors.ErrCodeWalletNotConnected, "Wallet not connected"))
		return
	}

	var input models.ClaimInput
	if err := c.ShouldBindJSON(&input); err != nil {
		middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeBadRequest, "Invalid claim request"))
		return
	}

	result, err := h.client.Claim(c.Request.Context(), session.AccountID, input.Tier)
	if err != nil {
		middleware.SendError(c, apperrors.Wrap(err, apperrors.ErrCodeMintAPI, "Claim failed"))
		return
	}
	c.JSON(http.StatusOK, result)
}
