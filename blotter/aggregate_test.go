package blotter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func trade(id, account, symbol, currency string, side Side, qty int64, price, fees string) TradeRecord {
	r := TradeRecord{
		TradeID:   id,
		TradeDate: "2026-08-28",
		Symbol:    symbol,
		Account:   account,
		Strategy:  "momentum",
		Venue:     "NASDAQ",
		Side:      side,
		Quantity:  qty,
		Price:     dec(price),
		Fees:      dec(fees),
		Currency:  currency,
	}
	r.Principal = Principal(side, qty, r.Price, r.Fees)
	return r
}

func TestPositions(t *testing.T) {
	t.Parallel()

	trades := []TradeRecord{
		trade("T1", "ACME", "AAPL", "USD", Buy, 300, "10", "1"),
		trade("T2", "ACME", "AAPL", "USD", Sell, 100, "11", "1"),
		trade("T3", "ACME", "MSFT", "USD", Buy, 50, "200", "2"),
		trade("T4", "ZETA", "AAPL", "USD", Sell, 40, "10", "1"),
	}

	got := Positions("2026-08-28", trades)

	assert.Equal(t, []PositionSnapshot{
		{Account: "ACME", Symbol: "AAPL", PositionDate: "2026-08-28", NetPosition: 200},
		{Account: "ACME", Symbol: "MSFT", PositionDate: "2026-08-28", NetPosition: 50},
		{Account: "ZETA", Symbol: "AAPL", PositionDate: "2026-08-28", NetPosition: -40},
	}, got)
}

func TestCash(t *testing.T) {
	t.Parallel()

	trades := []TradeRecord{
		trade("T1", "ACME", "AAPL", "USD", Buy, 100, "10.00", "1.00"),  // -1001.00
		trade("T2", "ACME", "AAPL", "USD", Sell, 100, "11.00", "1.00"), // +1099.00
		trade("T3", "ACME", "VOD", "GBP", Buy, 10, "5.00", "0.50"),     // -50.50
	}

	got := Cash("2026-08-28", trades)

	assert.Len(t, got, 2)
	assert.Equal(t, "GBP", got[0].Currency)
	assert.True(t, got[0].NetBalance.Equal(dec("-50.50")), "got %s", got[0].NetBalance)
	assert.Equal(t, "USD", got[1].Currency)
	assert.True(t, got[1].NetBalance.Equal(dec("98.00")), "got %s", got[1].NetBalance)
}

func TestAggregateDeterministic(t *testing.T) {
	t.Parallel()

	trades := []TradeRecord{
		trade("T1", "B", "Y", "USD", Buy, 10, "1", "0"),
		trade("T2", "A", "Z", "USD", Sell, 5, "2", "0"),
		trade("T3", "A", "X", "EUR", Buy, 7, "3", "0"),
	}
	reversed := []TradeRecord{trades[2], trades[1], trades[0]}

	assert.Equal(t, Positions("2026-08-28", trades), Positions("2026-08-28", reversed))
	assert.Equal(t, Cash("2026-08-28", trades), Cash("2026-08-28", reversed))
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Positions("2026-08-28", nil))
	assert.Empty(t, Cash("2026-08-28", nil))
}
