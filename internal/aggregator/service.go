// Package aggregator orchestrates quoting: it resolves tokens, provisions
// the taker account, consults liquidity backends in fallback order and
// caches the resulting executable quote for its validity window.
package aggregator

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/glidewallet/swap-engine/internal/adapters/accounts"
	"github.com/glidewallet/swap-engine/internal/adapters/blockchain"
	"github.com/glidewallet/swap-engine/internal/backends"
	"github.com/glidewallet/swap-engine/internal/cache"
	"github.com/glidewallet/swap-engine/internal/common"
	"github.com/glidewallet/swap-engine/internal/config"
	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/metrics"
	"github.com/glidewallet/swap-engine/internal/pricing"
	"github.com/glidewallet/swap-engine/internal/registry"
)

const AGGREGATOR_SERVICE = "aggregator-service"

// Request is a raw quoting request from the HTTP layer. Token identifiers
// are unresolved; exactly one of SellAmount or BuyAmount is set.
type Request struct {
	WalletID    string
	SellToken   string
	BuyToken    string
	SellAmount  *big.Int
	BuyAmount   *big.Int
	SlippageBps uint16 // 0 means the configured default
}

type tokenResolver interface {
	Resolve(identifier string) (domain.Token, error)
}

type accountProvider interface {
	GetOrCreateAccount(ctx context.Context, walletID string) (*domain.Account, error)
}

type Service struct {
	container.BaseDIInstance
	logger *common.ServiceLogger

	registry tokenResolver
	accounts accountProvider
	cache    cache.Store

	primary  backends.Client
	reverse  backends.ReverseQuoter
	fallback backends.Client
	direct   backends.Client

	// directPairs routes listed symbol pairs exclusively through the
	// direct AMM backend, bypassing the primary/fallback chain.
	directPairs map[string]struct{}

	chainID  uint64
	quoteTTL time.Duration

	defaultSlippageBps uint16
	maxSlippageBps     uint16
}

func (svc *Service) ID() string {
	return AGGREGATOR_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = common.NewServiceLogger(svc)
	swapConf := c.GetConfig(config.SWAP_CONFIG_KEY).(*config.SwapConfig)
	chainConf := c.GetConfig(config.CHAIN_CONFIG_KEY).(*config.ChainConfig)
	backendsConf := c.GetConfig(config.BACKENDS_CONFIG_KEY).(*config.BackendsConfig)

	svc.registry = c.Instance(registry.REGISTRY_SERVICE).(*registry.Service)
	svc.accounts = c.Instance(accounts.ACCOUNTS_SERVICE).(*accounts.Service)
	svc.cache = c.Instance(cache.CACHE_SERVICE).(*cache.Service)

	chainSvc := c.Instance(blockchain.CHAIN_SERVICE).(*blockchain.ChainService)

	zeroEx := backends.NewZeroExClient(
		backendsConf.ZeroExBaseURL,
		backendsConf.ZeroExAPIKey,
		time.Duration(backendsConf.HTTPTimeoutSeconds)*time.Second,
		chainConf.ChainID,
	)
	svc.primary = zeroEx
	svc.reverse = zeroEx
	svc.fallback = backends.NewRouterProbe(chainSvc, chainSvc.Router(), chainSvc.WETH())

	pricer := pricing.NewDirectPricer(chainSvc, chainSvc.WETH(), swapConf.MinSellAmount)
	svc.direct = backends.NewAmmClient(pricer, chainSvc.Router())

	svc.directPairs = make(map[string]struct{}, len(swapConf.DirectPairs))
	for _, pair := range swapConf.DirectPairs {
		svc.directPairs[canonicalPair(pair)] = struct{}{}
	}

	svc.chainID = chainConf.ChainID
	svc.quoteTTL = time.Duration(swapConf.QuoteTTLSeconds) * time.Second
	svc.defaultSlippageBps = swapConf.DefaultSlippageBps
	svc.maxSlippageBps = swapConf.MaxSlippageBps
	return nil
}

func (svc *Service) Start() error {
	svc.logger.Info().
		Int("directPairs", len(svc.directPairs)).
		Dur("quoteTTL", svc.quoteTTL).
		Msg("ready")
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

// QuoteBySellAmount prices a sell of a fixed input amount. Listed direct
// pairs go straight to the AMM pricer; everything else tries the primary
// backend and falls back to the router probe on liquidity failure only.
func (svc *Service) QuoteBySellAmount(ctx context.Context, req *Request) (*domain.Quote, error) {
	backendReq, err := svc.prepare(ctx, req, req.SellAmount)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues("sell", "rejected").Inc()
		return nil, err
	}
	backendReq.SellAmount = req.SellAmount

	var quote *domain.Quote
	if svc.isDirectPair(backendReq.Sell, backendReq.Buy) {
		quote, err = svc.quoteDirect(ctx, backendReq)
	} else {
		quote, err = svc.quoteWithFallback(ctx, backendReq)
	}
	if err != nil {
		metrics.QuoteRequests.WithLabelValues("sell", "failed").Inc()
		return nil, err
	}

	metrics.QuoteRequests.WithLabelValues("sell", "success").Inc()
	return svc.finalize(ctx, req.WalletID, quote)
}

// QuoteByBuyAmount prices toward a desired output amount. Only the primary
// backend can quote in reverse; direct pairs are rejected outright.
func (svc *Service) QuoteByBuyAmount(ctx context.Context, req *Request) (*domain.Quote, error) {
	backendReq, err := svc.prepare(ctx, req, req.BuyAmount)
	if err != nil {
		metrics.QuoteRequests.WithLabelValues("buy", "rejected").Inc()
		return nil, err
	}
	backendReq.BuyAmount = req.BuyAmount

	if svc.isDirectPair(backendReq.Sell, backendReq.Buy) {
		metrics.QuoteRequests.WithLabelValues("buy", "rejected").Inc()
		return nil, fmt.Errorf("%w: %s/%s is a direct AMM pair", domain.ErrReverseUnsupported, backendReq.Sell.Symbol, backendReq.Buy.Symbol)
	}

	started := time.Now()
	quote, err := svc.reverse.QuoteByBuyAmount(ctx, backendReq)
	if err != nil {
		svc.countBackendError(svc.primary.Name(), err)
		metrics.QuoteRequests.WithLabelValues("buy", "failed").Inc()
		if domain.IsLiquidityError(err) {
			return nil, fmt.Errorf("%w: %s/%s via %s", domain.ErrInsufficientLiquidity, backendReq.Sell.Symbol, backendReq.Buy.Symbol, svc.primary.Name())
		}
		return nil, err
	}
	metrics.QuoteDuration.WithLabelValues(string(quote.Source)).Observe(time.Since(started).Seconds())

	metrics.QuoteRequests.WithLabelValues("buy", "success").Inc()
	return svc.finalize(ctx, req.WalletID, quote)
}

// prepare resolves and validates everything both quoting modes share.
func (svc *Service) prepare(ctx context.Context, req *Request, amount *big.Int) (*backends.QuoteRequest, error) {
	if amount == nil || amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrAmountTooSmall)
	}

	sell, err := svc.registry.Resolve(req.SellToken)
	if err != nil {
		return nil, err
	}
	buy, err := svc.registry.Resolve(req.BuyToken)
	if err != nil {
		return nil, err
	}
	if sell.Address == buy.Address {
		return nil, fmt.Errorf("%w: %s", domain.ErrIdenticalTokens, sell.Symbol)
	}

	slippage := req.SlippageBps
	if slippage == 0 {
		slippage = svc.defaultSlippageBps
	}
	if slippage > svc.maxSlippageBps {
		slippage = svc.maxSlippageBps
	}

	account, err := svc.accounts.GetOrCreateAccount(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}

	return &backends.QuoteRequest{
		Sell:        sell,
		Buy:         buy,
		SlippageBps: slippage,
		Taker:       account.Address,
		ChainID:     svc.chainID,
	}, nil
}

func (svc *Service) quoteDirect(ctx context.Context, req *backends.QuoteRequest) (*domain.Quote, error) {
	started := time.Now()
	quote, err := svc.direct.QuoteBySellAmount(ctx, req)
	if err != nil {
		svc.countBackendError(svc.direct.Name(), err)
		return nil, err
	}
	metrics.QuoteDuration.WithLabelValues(string(domain.SourceDirectAmm)).Observe(time.Since(started).Seconds())
	return quote, nil
}

func (svc *Service) quoteWithFallback(ctx context.Context, req *backends.QuoteRequest) (*domain.Quote, error) {
	started := time.Now()
	quote, err := svc.primary.QuoteBySellAmount(ctx, req)
	if err == nil {
		metrics.QuoteDuration.WithLabelValues(string(quote.Source)).Observe(time.Since(started).Seconds())
		return quote, nil
	}

	svc.countBackendError(svc.primary.Name(), err)
	if !domain.IsLiquidityError(err) {
		return nil, err
	}

	metrics.BackendFallbacks.Inc()
	svc.logger.Info().
		Str("pair", req.Sell.Symbol+"/"+req.Buy.Symbol).
		Str("from", string(svc.primary.Name())).
		Str("to", string(svc.fallback.Name())).
		Msg("primary has no liquidity, falling back")

	started = time.Now()
	quote, err = svc.fallback.QuoteBySellAmount(ctx, req)
	if err != nil {
		svc.countBackendError(svc.fallback.Name(), err)
		if domain.IsLiquidityError(err) {
			return nil, fmt.Errorf("%w: %s/%s exhausted %s and %s",
				domain.ErrInsufficientLiquidity,
				req.Sell.Symbol, req.Buy.Symbol,
				svc.primary.Name(), svc.fallback.Name())
		}
		return nil, err
	}
	metrics.QuoteDuration.WithLabelValues(string(quote.Source)).Observe(time.Since(started).Seconds())
	return quote, nil
}

// finalize stamps identity and validity onto the quote and caches it for
// single-use execution.
func (svc *Service) finalize(ctx context.Context, walletID string, quote *domain.Quote) (*domain.Quote, error) {
	quote.ID = uuid.NewString()
	quote.WalletID = walletID
	quote.ExpiresAt = time.Now().Add(svc.quoteTTL)

	entry := &domain.CachedQuoteEntry{
		Quote:      *quote,
		WalletID:   walletID,
		SellAmount: quote.SellAmount.String(),
		CreatedAt:  time.Now(),
	}
	if err := svc.cache.Put(ctx, quote.ID, entry, svc.quoteTTL); err != nil {
		return nil, fmt.Errorf("failed to cache quote: %w", err)
	}

	log.Debug().
		Str("quoteId", quote.ID).
		Str("source", string(quote.Source)).
		Str("pair", quote.SellToken.Symbol+"/"+quote.BuyToken.Symbol).
		Msg("[aggregatorService] quote issued")
	return quote, nil
}

func (svc *Service) isDirectPair(sell, buy domain.Token) bool {
	_, ok := svc.directPairs[canonicalPair(sell.Symbol+"/"+buy.Symbol)]
	return ok
}

func (svc *Service) countBackendError(backend domain.QuoteSource, err error) {
	class := "transport"
	if domain.IsLiquidityError(err) {
		class = "liquidity"
	}
	metrics.BackendErrors.WithLabelValues(string(backend), class).Inc()
}

// canonicalPair normalizes "A/B" so pair listing is order-insensitive.
func canonicalPair(pair string) string {
	parts := strings.Split(strings.ToUpper(pair), "/")
	sort.Strings(parts)
	return strings.Join(parts, "/")
}
