package http

import (
	"math/big"

	"github.com/gin-gonic/gin"

	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/executor"
	"github.com/glidewallet/swap-engine/internal/http/httputil"
)

type SwapHandler struct {
	executorSvc *executor.Service
}

func NewSwapHandler(executorSvc *executor.Service) *SwapHandler {
	return &SwapHandler{executorSvc: executorSvc}
}

func (h *SwapHandler) Root() string {
	return "/swap"
}

func (h *SwapHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.POST("", h.executeSwap)
	pub.GET("/status/:hash", h.getStatus)
	pub.GET("/history/:walletId", h.getHistory)
}

// SwapRequest repeats the quoted parameters so the engine can verify the
// caller executes exactly what was quoted.
type SwapRequest struct {
	WalletID string `json:"walletId" binding:"required" example:"wallet-7f3a"`

	// QuoteID names the previously issued quote to execute.
	QuoteID string `json:"quoteId" binding:"required" example:"8f14e45f-ea8a-4f6c-8c4b-0a9a8f5a1f2b"`

	SellToken string `json:"sellToken" binding:"required" example:"USDC"`
	BuyToken  string `json:"buyToken" binding:"required" example:"ETH"`

	// SellAmount in smallest units; must equal the quoted amount exactly.
	SellAmount string `json:"sellAmount" binding:"required" example:"1000000"`

	// MinBuyAmount is optional; when present it must equal the quoted one.
	MinBuyAmount string `json:"minBuyAmount" example:"534827700000000000"`
}

// SwapResponse acknowledges a submitted swap. Settlement is tracked via the
// status endpoint.
type SwapResponse struct {
	SubmissionHash string `json:"submissionHash" example:"0x5c2f..."`
	Sponsored      bool   `json:"sponsored" example:"true"`
	Source         string `json:"source" example:"zeroex"`
}

// @Summary Execute a quoted swap
// @Description Consumes the named quote and submits the swap as one atomic unit
// @Description (approval + swap) through the account-abstraction executor with fee
// @Description sponsorship. A quote executes at most once; concurrent attempts race
// @Description for a single submission. Failed submissions restore the quote for the
// @Description rest of its validity window.
// @Tags swap
// @Accept json
// @Produce json
// @Param request body SwapRequest true "Execution request"
// @Success 200 {object} httputil.Response{data=SwapResponse}
// @Failure 400 {object} httputil.Response "Malformed request or unknown token"
// @Failure 404 {object} httputil.Response "Quote not found or already consumed"
// @Failure 409 {object} httputil.Response "Quote expired or parameters mismatch"
// @Failure 422 {object} httputil.Response "Insufficient balance"
// @Failure 502 {object} httputil.Response "Executor submission failed"
// @Router /api/v1/swap [post]
func (h *SwapHandler) executeSwap(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	sellAmount, ok := new(big.Int).SetString(req.SellAmount, 10)
	if !ok || sellAmount.Sign() <= 0 {
		httputil.BadRequest(c, "invalid sellAmount: must be a positive integer")
		return
	}

	var minBuyAmount *big.Int
	if req.MinBuyAmount != "" {
		minBuyAmount, ok = new(big.Int).SetString(req.MinBuyAmount, 10)
		if !ok {
			httputil.BadRequest(c, "invalid minBuyAmount")
			return
		}
	}

	result, err := h.executorSvc.Execute(c.Request.Context(), &domain.ExecutionRequest{
		WalletID:     req.WalletID,
		QuoteID:      req.QuoteID,
		SellToken:    req.SellToken,
		BuyToken:     req.BuyToken,
		SellAmount:   sellAmount,
		MinBuyAmount: minBuyAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.Success(c, SwapResponse{
		SubmissionHash: result.SubmissionHash,
		Sponsored:      result.Sponsored,
		Source:         string(result.Source),
	})
}

// @Summary Get submission status
// @Description Reports settlement state for a previously submitted swap.
// @Tags swap
// @Produce json
// @Param hash path string true "Submission hash"
// @Success 200 {object} httputil.Response{data=domain.SubmissionStatus}
// @Failure 404 {object} httputil.Response "Unknown submission"
// @Router /api/v1/swap/status/{hash} [get]
func (h *SwapHandler) getStatus(c *gin.Context) {
	status, err := h.executorSvc.Status(c.Request.Context(), c.Param("hash"))
	if err != nil {
		respondError(c, err)
		return
	}
	httputil.Success(c, status)
}

// @Summary List wallet swap history
// @Description Returns logged swaps for a wallet, newest first. Empty when the
// @Description transaction log is disabled.
// @Tags swap
// @Produce json
// @Param walletId path string true "Wallet identifier"
// @Success 200 {object} httputil.Response
// @Router /api/v1/swap/history/{walletId} [get]
func (h *SwapHandler) getHistory(c *gin.Context) {
	records, err := h.executorSvc.History(c.Param("walletId"))
	if err != nil {
		httputil.InternalError(c, err.Error())
		return
	}
	httputil.Success(c, records)
}
