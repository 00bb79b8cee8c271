// Package common contains common constants and variables used across services
package common

const (
	// BpsDenominator is the basis-point scale used for slippage and
	// price-impact arithmetic (10000 bps = 100%).
	BpsDenominator = 10000

	// SwapDeadlineSeconds is how far in the future router swap deadlines
	// are set. Batches settle within a block or two; the deadline only
	// guards against long-stuck submissions.
	SwapDeadlineSeconds = 300
)
