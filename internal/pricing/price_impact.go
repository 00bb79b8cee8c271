package pricing

// ImpactSeverity buckets price impact for display and warning purposes.
type ImpactSeverity string

const (
	ImpactNone     ImpactSeverity = "none"
	ImpactLow      ImpactSeverity = "low"
	ImpactModerate ImpactSeverity = "moderate"
	ImpactHigh     ImpactSeverity = "high"
	ImpactExtreme  ImpactSeverity = "extreme"
)

// Severity thresholds in basis points.
const (
	lowImpactBps      = 50
	moderateImpactBps = 100
	highImpactBps     = 300
	extremeImpactBps  = 1000
)

func ClassifyImpact(bps uint16) ImpactSeverity {
	switch {
	case bps < lowImpactBps:
		return ImpactNone
	case bps < moderateImpactBps:
		return ImpactLow
	case bps < highImpactBps:
		return ImpactModerate
	case bps < extremeImpactBps:
		return ImpactHigh
	default:
		return ImpactExtreme
	}
}

// ImpactWarning returns a human-readable caution for the given severity, or
// an empty string when no warning is warranted.
func ImpactWarning(severity ImpactSeverity) string {
	switch severity {
	case ImpactModerate:
		return "This trade will move the pool price noticeably"
	case ImpactHigh:
		return "High price impact: you will receive significantly less than the spot rate"
	case ImpactExtreme:
		return "Extreme price impact: this trade consumes a large share of pool liquidity"
	default:
		return ""
	}
}
