// Package recon pairs the internal and broker books for one business date and
// classifies every disagreement into a typed break with a severity.
package recon

import (
	"github.com/shopspring/decimal"
)

// BreakType classifies a discrepancy. The taxonomy is fixed; there is no
// pluggable rule set.
type BreakType string

const (
	MissingAtCounterparty  BreakType = "MISSING_AT_COUNTERPARTY"
	PhantomAtCounterparty  BreakType = "PHANTOM_AT_COUNTERPARTY"
	PriceMismatch          BreakType = "PRICE_MISMATCH"
	QuantityMismatch       BreakType = "QUANTITY_MISMATCH"
	FeeMismatch            BreakType = "FEE_MISMATCH"
	SettlementDateMismatch BreakType = "SETTLEMENT_DATE_MISMATCH"
	PositionMismatch       BreakType = "POSITION_MISMATCH"
	CashMismatch           BreakType = "CASH_MISMATCH"
)

// Severity ranks a break by its notional impact.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// TradeBreak is one trade-level discrepancy. A single trade can emit several
// break rows, one per differing field. InternalValue or BrokerValue is null
// when that side never recorded the trade.
type TradeBreak struct {
	ReconDate      string
	TradeID        string
	Symbol         string
	Account        string
	Type           BreakType
	Severity       Severity
	InternalValue  decimal.NullDecimal
	BrokerValue    decimal.NullDecimal
	NotionalImpact decimal.Decimal
	Resolved       bool
}

// PositionBreak is a net-position disagreement for one (account, symbol).
// A side with no row at all counts as zero, not as an error.
type PositionBreak struct {
	ReconDate  string
	Account    string
	Symbol     string
	Type       BreakType
	Severity   Severity
	Internal   int64
	Broker     int64
	Difference int64
}

// CashBreak is a net-cash disagreement for one (account, currency).
type CashBreak struct {
	ReconDate  string
	Account    string
	Currency   string
	Type       BreakType
	Severity   Severity
	Internal   decimal.Decimal
	Broker     decimal.Decimal
	Difference decimal.Decimal
}

// Tolerances are the comparison slops per field class. Price and fee absorb
// decimal feed noise; cash absorbs rounding across many rows; position is
// normally zero because share counts are exact integers.
type Tolerances struct {
	Price    decimal.Decimal
	Fee      decimal.Decimal
	Cash     decimal.Decimal
	Position int64
}

// Thresholds band notional impact into severities. Position thresholds are in
// share units rather than currency.
type Thresholds struct {
	Critical decimal.Decimal
	High     decimal.Decimal
	Medium   decimal.Decimal

	PositionCritical int64
	PositionHigh     int64
	PositionMedium   int64
}
