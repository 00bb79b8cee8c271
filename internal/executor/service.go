// Package executor turns a cached quote into an atomic on-chain execution:
// claim the quote, re-validate it against the request, assemble the call
// batch and submit it with fee sponsorship.
package executor

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/glidewallet/swap-engine/internal/adapters/accounts"
	"github.com/glidewallet/swap-engine/internal/adapters/blockchain"
	"github.com/glidewallet/swap-engine/internal/adapters/persistence"
	"github.com/glidewallet/swap-engine/internal/cache"
	"github.com/glidewallet/swap-engine/internal/common"
	"github.com/glidewallet/swap-engine/internal/config"
	"github.com/glidewallet/swap-engine/internal/domain"
	"github.com/glidewallet/swap-engine/internal/metrics"
	"github.com/glidewallet/swap-engine/internal/registry"
)

const EXECUTOR_SERVICE = "swap-executor-service"

// tokenResolver is the slice of the registry this service needs.
type tokenResolver interface {
	Resolve(identifier string) (domain.Token, error)
}

type Service struct {
	container.BaseDIInstance
	logger *common.ServiceLogger

	registry tokenResolver
	cache    cache.Store
	executor accounts.Executor
	swapLog  *persistence.SwapLog
}

func (svc *Service) ID() string {
	return EXECUTOR_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	svc.logger = common.NewServiceLogger(svc)
	svc.registry = c.Instance(registry.REGISTRY_SERVICE).(*registry.Service)
	svc.cache = c.Instance(cache.CACHE_SERVICE).(*cache.Service)
	svc.executor = c.Instance(accounts.ACCOUNTS_SERVICE).(*accounts.Service)

	persistenceConf := c.GetConfig(config.PERSISTENCE_CONFIG_KEY).(*config.PersistenceConfig)
	if persistenceConf.Enabled {
		swapLog, err := persistence.NewSwapLog(persistenceConf.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open swap log: %w", err)
		}
		svc.swapLog = swapLog
	}
	return nil
}

func (svc *Service) Start() error {
	return nil
}

func (svc *Service) Stop() error {
	if svc.swapLog != nil {
		return svc.swapLog.Close()
	}
	return nil
}

// Execute consumes the quote named by the request and submits the swap. The
// claim is atomic: concurrent executions of the same quote ID end with
// exactly one submission. A claim that fails validation or submission is
// restored for the remainder of its validity window.
func (svc *Service) Execute(ctx context.Context, req *domain.ExecutionRequest) (*domain.ExecutionResult, error) {
	timer := prometheus.NewTimer(metrics.ExecuteDuration)
	defer timer.ObserveDuration()

	entry, err := svc.cache.Claim(ctx, req.QuoteID)
	if err != nil {
		metrics.ExecuteRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("quote cache claim failed: %w", err)
	}
	if entry == nil {
		metrics.QuoteCacheMisses.Inc()
		metrics.ExecuteRequests.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrQuoteNotFound, req.QuoteID)
	}
	metrics.QuoteCacheHits.Inc()

	quote := &entry.Quote
	if time.Now().After(quote.ExpiresAt) {
		metrics.ExecuteRequests.WithLabelValues("expired").Inc()
		return nil, fmt.Errorf("%w: %s", domain.ErrQuoteExpired, req.QuoteID)
	}

	if err := svc.validate(entry, req); err != nil {
		svc.restore(ctx, req.QuoteID, entry)
		metrics.ExecuteRequests.WithLabelValues("mismatch").Inc()
		return nil, err
	}

	steps, err := BuildCallSteps(quote)
	if err != nil {
		svc.restore(ctx, req.QuoteID, entry)
		metrics.ExecuteRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("failed to assemble call batch: %w", err)
	}

	submission, err := svc.executor.Submit(ctx, req.WalletID, steps, true)
	if err != nil {
		svc.restore(ctx, req.QuoteID, entry)
		metrics.ExecuteRequests.WithLabelValues("failed").Inc()
		if errors.Is(err, domain.ErrInsufficientBalance) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrExecutionFailed, err)
	}

	metrics.ExecuteRequests.WithLabelValues("success").Inc()
	if submission.Sponsored {
		metrics.SponsoredSubmissions.Inc()
	}

	result := &domain.ExecutionResult{
		SubmissionHash: submission.Hash,
		Sponsored:      submission.Sponsored,
		Source:         quote.Source,
	}
	svc.record(quote, result)

	svc.logger.Info().
		Str("quoteId", quote.ID).
		Str("walletId", req.WalletID).
		Str("hash", submission.Hash).
		Str("source", string(quote.Source)).
		Bool("sponsored", submission.Sponsored).
		Msg("swap submitted")

	return result, nil
}

// validate rejects execution requests whose parameters differ from the
// quoted ones: a quote is only executable exactly as issued.
func (svc *Service) validate(entry *domain.CachedQuoteEntry, req *domain.ExecutionRequest) error {
	if entry.WalletID != req.WalletID {
		return fmt.Errorf("%w: wallet", domain.ErrQuoteMismatch)
	}

	sell, err := svc.registry.Resolve(req.SellToken)
	if err != nil {
		return err
	}
	buy, err := svc.registry.Resolve(req.BuyToken)
	if err != nil {
		return err
	}

	quote := &entry.Quote
	if sell.Address != quote.SellToken.Address || buy.Address != quote.BuyToken.Address {
		return fmt.Errorf("%w: token pair", domain.ErrQuoteMismatch)
	}
	if req.SellAmount == nil || req.SellAmount.String() != entry.SellAmount {
		return fmt.Errorf("%w: sell amount", domain.ErrQuoteMismatch)
	}
	if req.MinBuyAmount != nil && req.MinBuyAmount.Cmp(quote.MinBuyAmount) != 0 {
		return fmt.Errorf("%w: min buy amount", domain.ErrQuoteMismatch)
	}
	return nil
}

// restore puts a claimed entry back for whatever validity remains, so a
// failed attempt does not burn the quote.
func (svc *Service) restore(ctx context.Context, id string, entry *domain.CachedQuoteEntry) {
	remaining := time.Until(entry.Quote.ExpiresAt)
	if remaining <= 0 {
		return
	}
	if err := svc.cache.Put(ctx, id, entry, remaining); err != nil {
		svc.logger.Warn().Err(err).Str("quoteId", id).Msg("failed to restore claimed quote")
	}
}

func (svc *Service) record(quote *domain.Quote, result *domain.ExecutionResult) {
	if svc.swapLog == nil {
		return
	}
	if err := svc.swapLog.Append(quote, result); err != nil {
		metrics.SwapLogWrites.WithLabelValues("error").Inc()
		svc.logger.Warn().Err(err).Str("hash", result.SubmissionHash).Msg("failed to write swap log")
		return
	}
	metrics.SwapLogWrites.WithLabelValues("ok").Inc()
}

// Status reports settlement state for a previously submitted swap.
func (svc *Service) Status(ctx context.Context, hash string) (*domain.SubmissionStatus, error) {
	return svc.executor.SubmissionStatus(ctx, hash)
}

// History lists logged swaps for a wallet, newest first. Empty when the
// transaction log is disabled.
func (svc *Service) History(walletID string) ([]*persistence.StoredSwap, error) {
	if svc.swapLog == nil {
		return nil, nil
	}
	return svc.swapLog.ListByWallet(walletID)
}

// BuildCallSteps assembles the atomic execution unit for a quote. ERC-20
// sells get an approval of exactly the sell amount immediately before the
// swap; native sells attach value to the swap call instead.
func BuildCallSteps(quote *domain.Quote) ([]domain.SwapCallStep, error) {
	swapStep := domain.SwapCallStep{
		Target: quote.Detail.To,
		Value:  big.NewInt(0),
		Data:   quote.Detail.Data,
	}
	if quote.Detail.Value != nil {
		swapStep.Value = new(big.Int).Set(quote.Detail.Value)
	}

	if quote.SellToken.IsNative() {
		return []domain.SwapCallStep{swapStep}, nil
	}

	approveData, err := blockchain.ERC20ABI.Pack("approve", quote.Detail.AllowanceTarget, quote.SellAmount)
	if err != nil {
		return nil, err
	}
	approveStep := domain.SwapCallStep{
		Target: quote.SellToken.Address,
		Value:  big.NewInt(0),
		Data:   approveData,
	}
	return []domain.SwapCallStep{approveStep, swapStep}, nil
}
