package http

import (
	"math"
	"math/big"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/glidewallet/swap-engine/internal/aggregator"
	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/http/httputil"
	"github.com/glidewallet/swap-engine/internal/pricing"
)

type QuoteHandler struct {
	aggregatorSvc *aggregator.Service
}

func NewQuoteHandler(aggregatorSvc *aggregator.Service) *QuoteHandler {
	return &QuoteHandler{aggregatorSvc: aggregatorSvc}
}

func (h *QuoteHandler) Root() string {
	return "/quote"
}

func (h *QuoteHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.getQuote)
	pub.GET("/reverse", h.getReverseQuote)
}

// QuoteParams are the query parameters for a quote request. Tokens are
// case-insensitive symbols or contract addresses; amounts are decimal
// strings in smallest units.
type QuoteParams struct {
	WalletID string `form:"walletId" binding:"required" example:"wallet-7f3a"`

	SellToken string `form:"sellToken" binding:"required" example:"USDC"`
	BuyToken  string `form:"buyToken" binding:"required" example:"ETH"`

	// SellAmount for forward quotes, BuyAmount for reverse quotes.
	SellAmount string `form:"sellAmount" example:"1000000"`
	BuyAmount  string `form:"buyAmount" example:"500000000000000000"`

	// Slippage tolerance in basis points (1 bps = 0.01%). Omitted or zero
	// means the configured default; values above the cap are clamped.
	SlippageBps uint16 `form:"slippageBps" example:"100"`
}

// QuoteResponse is an executable quote. It stays valid until expiresAt and
// can be executed at most once via POST /swap.
type QuoteResponse struct {
	ID string `json:"id" example:"8f14e45f-ea8a-4f6c-8c4b-0a9a8f5a1f2b"`

	SellToken TokenInfo `json:"sellToken"`
	BuyToken  TokenInfo `json:"buyToken"`

	SellAmount   string `json:"sellAmount" example:"1000000"`
	BuyAmount    string `json:"buyAmount" example:"540230000000000000"`
	MinBuyAmount string `json:"minBuyAmount" example:"534827700000000000"`

	Price           string `json:"price" example:"0.00054023"`
	GuaranteedPrice string `json:"guaranteedPrice" example:"0.000534827"`

	PriceImpactPct      string `json:"priceImpactPct" example:"0.31"`
	PriceImpactSeverity string `json:"priceImpactSeverity" enums:"none,low,moderate,high,extreme" example:"none"`
	PriceImpactWarning  string `json:"priceImpactWarning,omitempty"`

	EstimatedGas uint64 `json:"estimatedGas" example:"210000"`
	Sponsored    bool   `json:"sponsored" example:"true"`

	Source    string    `json:"source" enums:"zeroex,router_probe,direct_amm" example:"zeroex"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// @Summary Get swap quote
// @Description Price a sell of a fixed input amount. The engine consults the primary
// @Description aggregator backend, falls back to the on-chain router probe when the
// @Description pair has no aggregator liquidity, and prices curated custom pairs
// @Description directly from pool reserves. The returned quote is cached and
// @Description executable exactly once until it expires.
// @Tags quote
// @Produce json
// @Param walletId query string true "Wallet identifier"
// @Param sellToken query string true "Sell token symbol or contract address" example("USDC")
// @Param buyToken query string true "Buy token symbol or contract address" example("ETH")
// @Param sellAmount query string true "Sell amount in smallest units" example("1000000")
// @Param slippageBps query int false "Slippage tolerance in basis points, default 100" example(100)
// @Success 200 {object} httputil.Response{data=QuoteResponse}
// @Failure 400 {object} httputil.Response "Unknown token, identical tokens or bad amount"
// @Failure 404 {object} httputil.Response "No liquidity on any backend"
// @Router /api/v1/quote [get]
func (h *QuoteHandler) getQuote(c *gin.Context) {
	params, amount, ok := h.parseParams(c, false)
	if !ok {
		return
	}

	quote, err := h.aggregatorSvc.QuoteBySellAmount(c.Request.Context(), &aggregator.Request{
		WalletID:    params.WalletID,
		SellToken:   params.SellToken,
		BuyToken:    params.BuyToken,
		SellAmount:  amount,
		SlippageBps: params.SlippageBps,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.Success(c, buildQuoteResponse(quote))
}

// @Summary Get reverse swap quote
// @Description Price toward a desired buy amount. Only the primary backend supports
// @Description reverse quoting; direct AMM pairs are rejected.
// @Tags quote
// @Produce json
// @Param walletId query string true "Wallet identifier"
// @Param sellToken query string true "Sell token symbol or contract address" example("USDC")
// @Param buyToken query string true "Buy token symbol or contract address" example("ETH")
// @Param buyAmount query string true "Desired buy amount in smallest units" example("500000000000000000")
// @Param slippageBps query int false "Slippage tolerance in basis points, default 100" example(100)
// @Success 200 {object} httputil.Response{data=QuoteResponse}
// @Failure 400 {object} httputil.Response "Unknown token, bad amount or direct AMM pair"
// @Failure 404 {object} httputil.Response "No liquidity on the primary backend"
// @Router /api/v1/quote/reverse [get]
func (h *QuoteHandler) getReverseQuote(c *gin.Context) {
	params, amount, ok := h.parseParams(c, true)
	if !ok {
		return
	}

	quote, err := h.aggregatorSvc.QuoteByBuyAmount(c.Request.Context(), &aggregator.Request{
		WalletID:    params.WalletID,
		SellToken:   params.SellToken,
		BuyToken:    params.BuyToken,
		BuyAmount:   amount,
		SlippageBps: params.SlippageBps,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	httputil.Success(c, buildQuoteResponse(quote))
}

func (h *QuoteHandler) parseParams(c *gin.Context, reverse bool) (*QuoteParams, *big.Int, bool) {
	var params QuoteParams
	if err := c.ShouldBindQuery(&params); err != nil {
		httputil.BadRequest(c, "invalid query parameters: "+err.Error())
		return nil, nil, false
	}

	raw := params.SellAmount
	field := "sellAmount"
	if reverse {
		raw = params.BuyAmount
		field = "buyAmount"
	}

	amount, ok := new(big.Int).SetString(raw, 10)
	if !ok || amount.Sign() <= 0 {
		httputil.BadRequest(c, "invalid "+field+": must be a positive integer")
		return nil, nil, false
	}

	return &params, amount, true
}

func buildQuoteResponse(quote *domain.Quote) QuoteResponse {
	impactBps := impactPctToBps(quote.PriceImpactPct)
	severity := pricing.ClassifyImpact(impactBps)

	return QuoteResponse{
		ID:                  quote.ID,
		SellToken:           tokenInfo(quote.SellToken),
		BuyToken:            tokenInfo(quote.BuyToken),
		SellAmount:          quote.SellAmount.String(),
		BuyAmount:           quote.BuyAmount.String(),
		MinBuyAmount:        quote.MinBuyAmount.String(),
		Price:               quote.Price,
		GuaranteedPrice:     quote.GuaranteedPrice,
		PriceImpactPct:      quote.PriceImpactPct,
		PriceImpactSeverity: string(severity),
		PriceImpactWarning:  pricing.ImpactWarning(severity),
		EstimatedGas:        quote.EstimatedGas,
		Sponsored:           true,
		Source:              string(quote.Source),
		ExpiresAt:           quote.ExpiresAt,
	}
}

func tokenInfo(t domain.Token) TokenInfo {
	return TokenInfo{
		Symbol:   t.Symbol,
		Name:     t.Name,
		Address:  t.Address.Hex(),
		Decimals: t.Decimals,
		Native:   t.IsNative(),
	}
}

// impactPctToBps parses a "1.23"-style percentage back into basis points
// for severity classification.
func impactPctToBps(pct string) uint16 {
	f, err := strconv.ParseFloat(pct, 64)
	if err != nil || f < 0 {
		return 0
	}
	if f > 100 {
		f = 100
	}
	return uint16(math.Round(f * 100))
}
