package http

import (
	"github.com/gin-gonic/gin"

	"github.com/glidewallet/swap-engine/internal/http/httputil"
	"github.com/glidewallet/swap-engine/internal/registry"
)

type TokenHandler struct {
	registrySvc *registry.Service
}

func NewTokenHandler(registrySvc *registry.Service) *TokenHandler {
	return &TokenHandler{registrySvc: registrySvc}
}

func (h *TokenHandler) Root() string {
	return "/tokens"
}

func (h *TokenHandler) SetRoutes(pub *gin.RouterGroup, private *gin.RouterGroup, admin *gin.RouterGroup) {
	pub.GET("", h.listTokens)
}

// TokenInfo is one supported asset as exposed to clients.
type TokenInfo struct {
	Symbol   string `json:"symbol" example:"USDC"`
	Name     string `json:"name" example:"USD Coin"`
	Address  string `json:"address" example:"0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"`
	Decimals uint8  `json:"decimals" example:"6"`
	Native   bool   `json:"native" example:"false"`
}

type TokenListResponse struct {
	Network string      `json:"network" example:"mainnet"`
	Tokens  []TokenInfo `json:"tokens"`
}

// @Summary List supported tokens
// @Description Returns the swappable token set for the active network, sorted by symbol.
// @Tags tokens
// @Produce json
// @Success 200 {object} TokenListResponse
// @Router /api/v1/tokens [get]
func (h *TokenHandler) listTokens(c *gin.Context) {
	tokens := h.registrySvc.List()

	out := make([]TokenInfo, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, TokenInfo{
			Symbol:   t.Symbol,
			Name:     t.Name,
			Address:  t.Address.Hex(),
			Decimals: t.Decimals,
			Native:   t.IsNative(),
		})
	}

	httputil.Success(c, TokenListResponse{
		Network: h.registrySvc.Network(),
		Tokens:  out,
	})
}
