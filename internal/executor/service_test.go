package executor

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glidewallet/swap-engine/internal/cache"
	"github.com/glidewallet/swap-engine/internal/common"
	"github.com/glidewallet/swap-engine/internal/domain"
)

var (
	routerAddr = ethcommon.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	usdcAddr   = ethcommon.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	daiAddr    = ethcommon.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
)

type fakeResolver struct{}

func (fakeResolver) Resolve(identifier string) (domain.Token, error) {
	switch strings.ToUpper(identifier) {
	case "USDC":
		return domain.Token{Symbol: "USDC", Address: usdcAddr, Decimals: 6}, nil
	case "DAI":
		return domain.Token{Symbol: "DAI", Address: daiAddr, Decimals: 18}, nil
	case "ETH":
		return domain.Token{Symbol: "ETH", Address: domain.NativeTokenAddress, Decimals: 18, Native: true}, nil
	}
	return domain.Token{}, domain.ErrTokenNotFound
}

type fakeExecutor struct {
	mu        sync.Mutex
	submitErr error
	submitted [][]domain.SwapCallStep
}

func (f *fakeExecutor) GetOrCreateAccount(_ context.Context, _ string) (*domain.Account, error) {
	return &domain.Account{Address: ethcommon.HexToAddress("0x9999999999999999999999999999999999999999")}, nil
}

func (f *fakeExecutor) Submit(_ context.Context, _ string, steps []domain.SwapCallStep, sponsor bool) (*domain.Submission, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = append(f.submitted, steps)
	return &domain.Submission{Hash: "0xabc123", Sponsored: sponsor}, nil
}

func (f *fakeExecutor) SubmissionStatus(_ context.Context, hash string) (*domain.SubmissionStatus, error) {
	return &domain.SubmissionStatus{Hash: hash, Status: "pending"}, nil
}

func (f *fakeExecutor) submissions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

func newTestService(store cache.Store, exec *fakeExecutor) *Service {
	svc := &Service{
		registry: fakeResolver{},
		cache:    store,
		executor: exec,
	}
	svc.logger = common.NewServiceLogger(svc)
	return svc
}

func cachedQuote(id, walletID string, sellSymbol string) *domain.CachedQuoteEntry {
	sellAddr := usdcAddr
	native := false
	if sellSymbol == "ETH" {
		sellAddr = domain.NativeTokenAddress
		native = true
	}
	value := big.NewInt(0)
	if native {
		value = big.NewInt(1000000)
	}
	return &domain.CachedQuoteEntry{
		Quote: domain.Quote{
			ID:           id,
			WalletID:     walletID,
			SellToken:    domain.Token{Symbol: sellSymbol, Address: sellAddr, Decimals: 6, Native: native},
			BuyToken:     domain.Token{Symbol: "DAI", Address: daiAddr, Decimals: 18},
			SellAmount:   big.NewInt(1000000),
			BuyAmount:    big.NewInt(995000),
			MinBuyAmount: big.NewInt(985050),
			Source:       domain.SourceZeroEx,
			ExpiresAt:    time.Now().Add(30 * time.Second),
			Detail: domain.ExecutableDetail{
				To:              routerAddr,
				Data:            []byte{0x01, 0x02, 0x03, 0x04},
				Value:           value,
				AllowanceTarget: routerAddr,
			},
		},
		WalletID:   walletID,
		SellAmount: "1000000",
		CreatedAt:  time.Now(),
	}
}

func executionRequest(id, walletID string) *domain.ExecutionRequest {
	return &domain.ExecutionRequest{
		WalletID:   walletID,
		QuoteID:    id,
		SellToken:  "USDC",
		BuyToken:   "DAI",
		SellAmount: big.NewInt(1000000),
	}
}

func TestExecuteHappyPath(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	exec := &fakeExecutor{}
	svc := newTestService(store, exec)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "q1", cachedQuote("q1", "wallet-1", "USDC"), 30*time.Second))

	result, err := svc.Execute(ctx, executionRequest("q1", "wallet-1"))
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", result.SubmissionHash)
	assert.True(t, result.Sponsored)
	assert.Equal(t, domain.SourceZeroEx, result.Source)

	// Quote consumed: a second execution must fail.
	_, err = svc.Execute(ctx, executionRequest("q1", "wallet-1"))
	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
	assert.Equal(t, 1, exec.submissions())
}

func TestExecuteConcurrentSingleSubmission(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	exec := &fakeExecutor{}
	svc := newTestService(store, exec)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "q1", cachedQuote("q1", "wallet-1", "USDC"), 30*time.Second))

	const workers = 16
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			svc.Execute(ctx, executionRequest("q1", "wallet-1"))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, exec.submissions(), "exactly one submission must win")
}

func TestExecuteUnknownQuote(t *testing.T) {
	svc := newTestService(cache.NewMemoryStore(time.Minute), &fakeExecutor{})

	_, err := svc.Execute(context.Background(), executionRequest("missing", "wallet-1"))
	assert.ErrorIs(t, err, domain.ErrQuoteNotFound)
}

func TestExecuteExpiredQuote(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	svc := newTestService(store, &fakeExecutor{})
	ctx := context.Background()

	entry := cachedQuote("q1", "wallet-1", "USDC")
	entry.Quote.ExpiresAt = time.Now().Add(-time.Second)
	// Store TTL lags wall-clock expiry slightly; the executor checks the
	// quote's own deadline.
	require.NoError(t, store.Put(ctx, "q1", entry, time.Minute))

	_, err := svc.Execute(ctx, executionRequest("q1", "wallet-1"))
	assert.ErrorIs(t, err, domain.ErrQuoteExpired)
}

func TestExecuteMismatchRestoresQuote(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	exec := &fakeExecutor{}
	svc := newTestService(store, exec)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "q1", cachedQuote("q1", "wallet-1", "USDC"), 30*time.Second))

	cases := []struct {
		name string
		req  *domain.ExecutionRequest
	}{
		{"wrong wallet", executionRequest("q1", "wallet-2")},
		{"wrong amount", &domain.ExecutionRequest{
			WalletID: "wallet-1", QuoteID: "q1",
			SellToken: "USDC", BuyToken: "DAI",
			SellAmount: big.NewInt(2000000),
		}},
		{"wrong pair", &domain.ExecutionRequest{
			WalletID: "wallet-1", QuoteID: "q1",
			SellToken: "ETH", BuyToken: "DAI",
			SellAmount: big.NewInt(1000000),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Execute(ctx, tc.req)
			assert.ErrorIs(t, err, domain.ErrQuoteMismatch)
		})
	}

	// Mismatches must not burn the quote: the matching request still works.
	result, err := svc.Execute(ctx, executionRequest("q1", "wallet-1"))
	require.NoError(t, err)
	assert.Equal(t, "0xabc123", result.SubmissionHash)
	assert.Equal(t, 1, exec.submissions())
}

func TestExecuteSubmissionFailureRestoresQuote(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	exec := &fakeExecutor{submitErr: errors.New("executor unavailable")}
	svc := newTestService(store, exec)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "q1", cachedQuote("q1", "wallet-1", "USDC"), 30*time.Second))

	_, err := svc.Execute(ctx, executionRequest("q1", "wallet-1"))
	assert.ErrorIs(t, err, domain.ErrExecutionFailed)

	// The quote survives the failed attempt.
	exec.submitErr = nil
	_, err = svc.Execute(ctx, executionRequest("q1", "wallet-1"))
	assert.NoError(t, err)
}

func TestExecuteInsufficientBalancePassedThrough(t *testing.T) {
	store := cache.NewMemoryStore(time.Minute)
	exec := &fakeExecutor{submitErr: domain.ErrInsufficientBalance}
	svc := newTestService(store, exec)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "q1", cachedQuote("q1", "wallet-1", "USDC"), 30*time.Second))

	_, err := svc.Execute(ctx, executionRequest("q1", "wallet-1"))
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
}

func TestBuildCallStepsERC20(t *testing.T) {
	entry := cachedQuote("q1", "wallet-1", "USDC")
	steps, err := BuildCallSteps(&entry.Quote)
	require.NoError(t, err)
	require.Len(t, steps, 2, "ERC-20 sell needs approval before swap")

	approve, swap := steps[0], steps[1]
	assert.Equal(t, usdcAddr, approve.Target, "approval targets the sell token contract")
	assert.Zero(t, approve.Value.Sign())
	// approve(address,uint256) selector.
	assert.Equal(t, []byte{0x09, 0x5e, 0xa7, 0xb3}, approve.Data[:4])
	// Exact sell amount in the last word of the calldata.
	amount := new(big.Int).SetBytes(approve.Data[len(approve.Data)-32:])
	assert.Zero(t, amount.Cmp(entry.Quote.SellAmount))

	assert.Equal(t, routerAddr, swap.Target)
	assert.Equal(t, entry.Quote.Detail.Data, swap.Data)
}

func TestBuildCallStepsNative(t *testing.T) {
	entry := cachedQuote("q1", "wallet-1", "ETH")
	steps, err := BuildCallSteps(&entry.Quote)
	require.NoError(t, err)
	require.Len(t, steps, 1, "native sell needs no approval")

	assert.Equal(t, routerAddr, steps[0].Target)
	assert.Zero(t, steps[0].Value.Cmp(big.NewInt(1000000)), "sell amount attached as call value")
}
