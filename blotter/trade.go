// Package blotter holds the trade, position and cash record types shared by
// both books of record, plus validation and aggregation over them.
package blotter

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Side of a trade.
type Side string

const (
	Buy  Side = "BUY"
	Sell Side = "SELL"
)

// Source identifies which book of record a set of rows came from.
type Source string

const (
	Internal Source = "internal"
	Broker   Source = "broker"
)

// ErrMalformed marks a row that fails type/range validation. A malformed row
// fails the whole run for its date; engines never drop rows silently.
var ErrMalformed = errors.New("malformed record")

// TradeRecord is one blotter row. Monetary fields are decimals; quantity is a
// whole share count. Principal carries the signed cash impact:
// -(qty*price+fees) for a buy, +(qty*price-fees) for a sell.
type TradeRecord struct {
	TradeID        string
	TradeDate      string // YYYY-MM-DD
	SettlementDate string // YYYY-MM-DD, may be empty (nullable upstream)
	Symbol         string
	Account        string
	Strategy       string
	Venue          string
	Side           Side
	Quantity       int64
	Price          decimal.Decimal
	Fees           decimal.Decimal
	Currency       string
	Principal      decimal.Decimal
}

// PositionSnapshot is the net position for one (account, symbol) on a date.
type PositionSnapshot struct {
	Account      string
	Symbol       string
	PositionDate string
	NetPosition  int64
}

// CashSnapshot is the net cash balance for one (account, currency) on a date.
type CashSnapshot struct {
	Account    string
	Currency   string
	CashDate   string
	NetBalance decimal.Decimal
}

// Principal computes the signed cash impact for a trade's terms.
func Principal(side Side, quantity int64, price, fees decimal.Decimal) decimal.Decimal {
	gross := price.Mul(decimal.NewFromInt(quantity))
	if side == Buy {
		return gross.Add(fees).Neg()
	}
	return gross.Sub(fees)
}

// Validate checks a single trade row. All failures wrap ErrMalformed.
func (t TradeRecord) Validate() error {
	switch {
	case t.TradeID == "":
		return fmt.Errorf("missing trade_id: %w", ErrMalformed)
	case t.TradeDate == "":
		return malformed(t.TradeID, "missing trade_date")
	case t.Symbol == "":
		return malformed(t.TradeID, "missing symbol")
	case t.Account == "":
		return malformed(t.TradeID, "missing account")
	case t.Currency == "":
		return malformed(t.TradeID, "missing currency")
	case t.Side != Buy && t.Side != Sell:
		return malformed(t.TradeID, fmt.Sprintf("unknown side %q", t.Side))
	case t.Quantity <= 0:
		return malformed(t.TradeID, fmt.Sprintf("quantity %d must be positive", t.Quantity))
	case t.Price.IsNegative():
		return malformed(t.TradeID, fmt.Sprintf("negative price %s", t.Price))
	case t.Fees.IsNegative():
		return malformed(t.TradeID, fmt.Sprintf("negative fees %s", t.Fees))
	}
	// Principal sign is determined solely by side.
	if t.Side == Buy && t.Principal.IsPositive() {
		return malformed(t.TradeID, fmt.Sprintf("buy principal %s must not be positive", t.Principal))
	}
	if t.Side == Sell && t.Principal.IsNegative() {
		return malformed(t.TradeID, fmt.Sprintf("sell principal %s must not be negative", t.Principal))
	}
	return nil
}

// ValidateTrades checks every row and rejects duplicate trade IDs, which are
// unique within one source side.
func ValidateTrades(trades []TradeRecord) error {
	seen := make(map[string]bool, len(trades))
	for _, t := range trades {
		if err := t.Validate(); err != nil {
			return err
		}
		if seen[t.TradeID] {
			return malformed(t.TradeID, "duplicate trade_id")
		}
		seen[t.TradeID] = true
	}
	return nil
}

func malformed(tradeID, reason string) error {
	return fmt.Errorf("trade %s: %s: %w", tradeID, reason, ErrMalformed)
}
