package domain

import "errors"

// Error taxonomy shared across the engine. Packages wrap these sentinels
// with context; the HTTP layer maps them to stable machine-readable codes.
var (
	ErrTokenNotFound   = errors.New("token not supported")
	ErrIdenticalTokens = errors.New("sell and buy token are identical")

	// ErrNoLiquidity is a liquidity-class failure from a single backend or
	// pool; the aggregator falls back on it.
	ErrNoLiquidity = errors.New("no liquidity")

	// ErrInsufficientLiquidity means every backend was exhausted.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrPathInvalid means the router simulation rejected a directly
	// computed path.
	ErrPathInvalid = errors.New("swap path rejected by router simulation")

	ErrAmountTooSmall = errors.New("sell amount below minimum")

	ErrQuoteNotFound = errors.New("quote not found")
	ErrQuoteExpired  = errors.New("quote expired")
	ErrQuoteMismatch = errors.New("execution request does not match quoted request")

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrExecutionFailed     = errors.New("execution submission failed")
	ErrSubmissionNotFound  = errors.New("submission not found")

	ErrReverseUnsupported = errors.New("reverse quoting not supported by liquidity source")
)

// IsLiquidityError reports whether err is a liquidity-class failure, i.e.
// one the aggregator may fall back from. Transport failures are never
// liquidity errors; conflating them would misreport a backend outage as
// "no market for this pair".
func IsLiquidityError(err error) bool {
	return errors.Is(err, ErrNoLiquidity) || errors.Is(err, ErrInsufficientLiquidity)
}
