package backends

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/pricing"
)

// liquidityMarker is the validation reason the API returns when no route
// exists for the pair. Any other non-200 response is a transport failure.
var liquidityMarker = []byte("INSUFFICIENT_ASSET_LIQUIDITY")

// ZeroExClient quotes against the hosted aggregator API. It is the primary
// backend and the only one that supports reverse (buy-amount) quoting.
type ZeroExClient struct {
	http    *http.Client
	baseURL string
	apiKey  string
	chainID uint64
}

func NewZeroExClient(baseURL, apiKey string, timeout time.Duration, chainID uint64) *ZeroExClient {
	return &ZeroExClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		chainID: chainID,
	}
}

func (c *ZeroExClient) Name() domain.QuoteSource {
	return domain.SourceZeroEx
}

type zeroExQuoteResponse struct {
	Price                string `json:"price"`
	GuaranteedPrice      string `json:"guaranteedPrice"`
	EstimatedPriceImpact string `json:"estimatedPriceImpact"`
	To                   string `json:"to"`
	Data                 string `json:"data"`
	Value                string `json:"value"`
	Gas                  string `json:"gas"`
	SellAmount           string `json:"sellAmount"`
	BuyAmount            string `json:"buyAmount"`
	AllowanceTarget      string `json:"allowanceTarget"`
}

func (c *ZeroExClient) QuoteBySellAmount(ctx context.Context, req *QuoteRequest) (*domain.Quote, error) {
	params := c.baseParams(req)
	params.Set("sellAmount", req.SellAmount.String())
	return c.quote(ctx, req, params)
}

func (c *ZeroExClient) QuoteByBuyAmount(ctx context.Context, req *QuoteRequest) (*domain.Quote, error) {
	params := c.baseParams(req)
	params.Set("buyAmount", req.BuyAmount.String())
	return c.quote(ctx, req, params)
}

func (c *ZeroExClient) baseParams(req *QuoteRequest) url.Values {
	params := url.Values{}
	params.Set("sellToken", tokenParam(req.Sell))
	params.Set("buyToken", tokenParam(req.Buy))
	params.Set("takerAddress", req.Taker.Hex())
	params.Set("slippagePercentage", strconv.FormatFloat(float64(req.SlippageBps)/10000, 'f', -1, 64))
	return params
}

func (c *ZeroExClient) quote(ctx context.Context, req *QuoteRequest, params url.Values) (*domain.Quote, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/swap/v1/quote?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		httpReq.Header.Set("0x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read quote response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusBadRequest && bytes.Contains(body, liquidityMarker) {
			return nil, fmt.Errorf("%w: %s/%s has no route", domain.ErrNoLiquidity, req.Sell.Symbol, req.Buy.Symbol)
		}
		return nil, fmt.Errorf("quote api returned status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	var decoded zeroExQuoteResponse
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	return c.toQuote(req, &decoded)
}

func (c *ZeroExClient) toQuote(req *QuoteRequest, resp *zeroExQuoteResponse) (*domain.Quote, error) {
	sellAmount, ok := new(big.Int).SetString(resp.SellAmount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid sellAmount in quote response: %q", resp.SellAmount)
	}
	buyAmount, ok := new(big.Int).SetString(resp.BuyAmount, 10)
	if !ok {
		return nil, fmt.Errorf("invalid buyAmount in quote response: %q", resp.BuyAmount)
	}

	value := big.NewInt(0)
	if resp.Value != "" {
		if value, ok = new(big.Int).SetString(resp.Value, 10); !ok {
			return nil, fmt.Errorf("invalid value in quote response: %q", resp.Value)
		}
	}

	data, err := hexutil.Decode(resp.Data)
	if err != nil {
		return nil, fmt.Errorf("invalid calldata in quote response: %w", err)
	}

	gas, _ := strconv.ParseUint(resp.Gas, 10, 64)

	return &domain.Quote{
		Taker:           req.Taker,
		SellToken:       req.Sell,
		BuyToken:        req.Buy,
		SellAmount:      sellAmount,
		BuyAmount:       buyAmount,
		MinBuyAmount:    pricing.MinOutAfterSlippage(buyAmount, req.SlippageBps),
		Price:           resp.Price,
		GuaranteedPrice: resp.GuaranteedPrice,
		PriceImpactPct:  normalizeImpactPct(resp.EstimatedPriceImpact),
		EstimatedGas:    gas,
		Source:          domain.SourceZeroEx,
		Detail: domain.ExecutableDetail{
			To:              ethcommon.HexToAddress(resp.To),
			Data:            data,
			Value:           value,
			AllowanceTarget: ethcommon.HexToAddress(resp.AllowanceTarget),
		},
	}, nil
}

// tokenParam renders a token for the API: native assets go by symbol, ERC-20s
// by contract address.
func tokenParam(t domain.Token) string {
	if t.IsNative() {
		return "ETH"
	}
	return t.Address.Hex()
}

// normalizeImpactPct clamps the API's free-form impact percentage to two
// decimal places. Absent or unparsable values degrade to "0.00".
func normalizeImpactPct(s string) string {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return "0.00"
	}
	if f > 100 {
		f = 100
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
