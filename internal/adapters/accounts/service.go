// Package accounts is the client for the account-abstraction executor
// collaborator: it provisions smart executing accounts, submits atomic call
// batches with fee sponsorship, and reports settlement status.
package accounts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog/log"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/glidewallet/swap-engine/internal/config"
	"github.com/glidewallet/swap-engine/internal/domain"
)

const ACCOUNTS_SERVICE = "account-executor-service"

// balanceMarker is the executor's stable code for a batch whose simulated
// execution would fail for lack of funds.
var balanceMarker = []byte("INSUFFICIENT_BALANCE")

// Executor is the surface the swap executor depends on.
type Executor interface {
	GetOrCreateAccount(ctx context.Context, walletID string) (*domain.Account, error)
	Submit(ctx context.Context, walletID string, steps []domain.SwapCallStep, sponsor bool) (*domain.Submission, error)
	SubmissionStatus(ctx context.Context, hash string) (*domain.SubmissionStatus, error)
}

type Service struct {
	container.BaseDIInstance

	http    *http.Client
	baseURL string
	chainID uint64
}

func (svc *Service) ID() string {
	return ACCOUNTS_SERVICE
}

func (svc *Service) Configure(c container.IContainer) error {
	backendsConf := c.GetConfig(config.BACKENDS_CONFIG_KEY).(*config.BackendsConfig)
	chainConf := c.GetConfig(config.CHAIN_CONFIG_KEY).(*config.ChainConfig)

	svc.baseURL = backendsConf.AccountExecutorURL
	svc.chainID = chainConf.ChainID
	svc.http = &http.Client{Timeout: time.Duration(backendsConf.HTTPTimeoutSeconds) * time.Second}
	return nil
}

func (svc *Service) Start() error {
	log.Info().Str("url", svc.baseURL).Msg("[accountExecutor] configured")
	return nil
}

func (svc *Service) Stop() error {
	return nil
}

type accountRequest struct {
	WalletID string `json:"walletId"`
	ChainID  uint64 `json:"chainId"`
}

type accountResponse struct {
	Address    string `json:"address"`
	IsDeployed bool   `json:"isDeployed"`
}

// GetOrCreateAccount resolves the wallet's smart executing account,
// provisioning one on first use. Idempotent on the executor side.
func (svc *Service) GetOrCreateAccount(ctx context.Context, walletID string) (*domain.Account, error) {
	var decoded accountResponse
	err := svc.post(ctx, "/accounts", &accountRequest{WalletID: walletID, ChainID: svc.chainID}, &decoded)
	if err != nil {
		return nil, fmt.Errorf("account provisioning failed: %w", err)
	}
	return &domain.Account{
		Address:    ethcommon.HexToAddress(decoded.Address),
		IsDeployed: decoded.IsDeployed,
	}, nil
}

type submitStep struct {
	Target string `json:"target"`
	Value  string `json:"value"`
	Data   string `json:"data"`
}

type submitRequest struct {
	WalletID string       `json:"walletId"`
	ChainID  uint64       `json:"chainId"`
	Calls    []submitStep `json:"calls"`
	Sponsor  bool         `json:"sponsor"`
}

type submitResponse struct {
	Hash      string `json:"hash"`
	Sponsored bool   `json:"sponsored"`
}

// Submit sends the call batch for atomic execution. The executor runs all
// steps in one transaction: either every step lands or none do.
func (svc *Service) Submit(ctx context.Context, walletID string, steps []domain.SwapCallStep, sponsor bool) (*domain.Submission, error) {
	req := &submitRequest{
		WalletID: walletID,
		ChainID:  svc.chainID,
		Calls:    make([]submitStep, len(steps)),
		Sponsor:  sponsor,
	}
	for i, s := range steps {
		req.Calls[i] = submitStep{
			Target: s.Target.Hex(),
			Value:  s.Value.String(),
			Data:   hexutil.Encode(s.Data),
		}
	}

	var decoded submitResponse
	if err := svc.post(ctx, "/submissions", req, &decoded); err != nil {
		return nil, err
	}
	return &domain.Submission{Hash: decoded.Hash, Sponsored: decoded.Sponsored}, nil
}

func (svc *Service) SubmissionStatus(ctx context.Context, hash string) (*domain.SubmissionStatus, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, svc.baseURL+"/submissions/"+hash, nil)
	if err != nil {
		return nil, err
	}

	resp, err := svc.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("status request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", domain.ErrSubmissionNotFound, hash)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("executor returned status %d", resp.StatusCode)
	}

	var status domain.SubmissionStatus
	if err := sonic.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}
	return &status, nil
}

func (svc *Service) post(ctx context.Context, path string, payload, out any) error {
	body, err := sonic.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, svc.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := svc.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExecutionFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrExecutionFailed, err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if bytes.Contains(respBody, balanceMarker) {
			return domain.ErrInsufficientBalance
		}
		return fmt.Errorf("%w: executor returned status %d", domain.ErrExecutionFailed, resp.StatusCode)
	}

	return sonic.Unmarshal(respBody, out)
}

var _ Executor = (*Service)(nil)
