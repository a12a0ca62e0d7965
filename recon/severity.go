package recon

import "github.com/shopspring/decimal"

// severityFor bands an absolute notional impact against the configured
// thresholds.
func severityFor(impact decimal.Decimal, th Thresholds) Severity {
	switch {
	case impact.GreaterThanOrEqual(th.Critical):
		return SeverityCritical
	case impact.GreaterThanOrEqual(th.High):
		return SeverityHigh
	case impact.GreaterThanOrEqual(th.Medium):
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// severityForUnits bands an absolute share-count difference.
func severityForUnits(units int64, th Thresholds) Severity {
	switch {
	case units >= th.PositionCritical:
		return SeverityCritical
	case units >= th.PositionHigh:
		return SeverityHigh
	case units >= th.PositionMedium:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// atLeastHigh floors a severity at HIGH. Missing and phantom trades are
// operationally severe no matter how small the notional.
func atLeastHigh(s Severity) Severity {
	if s == SeverityLow || s == SeverityMedium {
		return SeverityHigh
	}
	return s
}
