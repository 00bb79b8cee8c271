package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SwapCallStep is one call of the atomic execution unit submitted to the
// account-abstraction executor. If a token approval is needed it always
// precedes the swap step and approves exactly the sell amount.
type SwapCallStep struct {
	Target common.Address `json:"target"`
	Value  *big.Int       `json:"value"`
	Data   []byte         `json:"data"`
}

// ExecutionRequest repeats the quoted request so the executor can verify the
// caller executes exactly what was quoted.
type ExecutionRequest struct {
	WalletID string

	QuoteID string

	SellToken string

	BuyToken string

	SellAmount *big.Int

	MinBuyAmount *big.Int
}

// ExecutionResult is the acknowledgement of a submitted swap. Settlement is
// tracked separately via the submission status endpoint.
type ExecutionResult struct {
	SubmissionHash string `json:"submissionHash"`

	Sponsored bool `json:"sponsored"`

	Source QuoteSource `json:"source"`
}

// Account is a smart executing account provisioned for a wallet.
type Account struct {
	Address    common.Address `json:"address"`
	IsDeployed bool           `json:"isDeployed"`
}

// Submission is the handle returned by the account-abstraction executor.
type Submission struct {
	Hash      string `json:"hash"`
	Sponsored bool   `json:"sponsored"`
}

// SubmissionStatus reports the settlement state of a submitted batch.
type SubmissionStatus struct {
	Hash string `json:"hash"`

	// Status is one of "pending", "included", "failed".
	Status string `json:"status"`

	BlockNumber uint64 `json:"blockNumber,omitempty"`
}
