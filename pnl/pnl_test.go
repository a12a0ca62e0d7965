package pnl

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeops/blotter"
)

const date = "2026-08-28"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func trade(id, strategy, symbol, account string, side blotter.Side, qty int64, price, fees string) blotter.TradeRecord {
	r := blotter.TradeRecord{
		TradeID:   id,
		TradeDate: date,
		Symbol:    symbol,
		Account:   account,
		Strategy:  strategy,
		Venue:     "NASDAQ",
		Side:      side,
		Quantity:  qty,
		Price:     dec(price),
		Fees:      dec(fees),
		Currency:  "USD",
	}
	r.Principal = blotter.Principal(side, qty, r.Price, r.Fees)
	return r
}

func TestCalculateGrouping(t *testing.T) {
	t.Parallel()

	trades := []blotter.TradeRecord{
		trade("T1", "momentum", "AAPL", "ACME", blotter.Buy, 100, "10.00", "1.00"),  // -1001.00
		trade("T2", "momentum", "AAPL", "ACME", blotter.Sell, 100, "11.00", "1.00"), // +1099.00
		trade("T3", "momentum", "MSFT", "ACME", blotter.Sell, 10, "200.00", "2.00"), // +1998.00
		trade("T4", "meanrev", "AAPL", "ACME", blotter.Buy, 50, "10.00", "0.50"),    // -500.50
	}

	records := Calculate(date, trades)
	require.Len(t, records, 3)

	// Sorted by (strategy, symbol, account).
	assert.Equal(t, "meanrev", records[0].Strategy)
	assert.Equal(t, "momentum", records[1].Strategy)
	assert.Equal(t, "AAPL", records[1].Symbol)
	assert.Equal(t, "MSFT", records[2].Symbol)

	aapl := records[1]
	assert.Equal(t, int64(2), aapl.TradeCount)
	assert.True(t, aapl.RealizedPnl.Equal(dec("98.00")), "got %s", aapl.RealizedPnl)
	assert.True(t, aapl.FeesTotal.Equal(dec("2.00")), "got %s", aapl.FeesTotal)
	assert.True(t, aapl.NetPnl.Equal(dec("96.00")), "got %s", aapl.NetPnl)
}

func TestCalculateNetIsRealizedMinusFees(t *testing.T) {
	t.Parallel()

	trades := []blotter.TradeRecord{
		trade("T1", "momentum", "AAPL", "ACME", blotter.Buy, 100, "10.123", "1.37"),
		trade("T2", "momentum", "AAPL", "ACME", blotter.Sell, 100, "10.456", "1.13"),
	}

	records := Calculate(date, trades)
	require.Len(t, records, 1)
	r := records[0]
	assert.True(t, r.NetPnl.Equal(r.RealizedPnl.Sub(r.FeesTotal)), "net %s realized %s fees %s", r.NetPnl, r.RealizedPnl, r.FeesTotal)
}

func TestCalculateGlobalConservation(t *testing.T) {
	t.Parallel()

	trades := []blotter.TradeRecord{
		trade("T1", "momentum", "AAPL", "ACME", blotter.Buy, 100, "10.00", "1.00"),
		trade("T2", "momentum", "MSFT", "ACME", blotter.Sell, 10, "200.00", "2.00"),
		trade("T3", "meanrev", "VOD", "ZETA", blotter.Buy, 7, "3.33", "0.07"),
		trade("T4", "meanrev", "VOD", "ACME", blotter.Sell, 7, "3.35", "0.07"),
	}

	var principal, fees decimal.Decimal
	for _, tr := range trades {
		principal = principal.Add(tr.Principal)
		fees = fees.Add(tr.Fees)
	}

	var net decimal.Decimal
	for _, r := range Calculate(date, trades) {
		net = net.Add(r.NetPnl)
	}

	assert.True(t, net.Equal(principal.Sub(fees)),
		"sum(net_pnl)=%s must equal sum(principal)-sum(fees)=%s", net, principal.Sub(fees))
}

func TestCalculateNoTradesNoRows(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Calculate(date, nil))
}

func TestCalculateIdempotent(t *testing.T) {
	t.Parallel()

	trades := []blotter.TradeRecord{
		trade("T2", "momentum", "AAPL", "ACME", blotter.Sell, 100, "11.00", "1.00"),
		trade("T1", "momentum", "AAPL", "ACME", blotter.Buy, 100, "10.00", "1.00"),
	}

	assert.Equal(t, Calculate(date, trades), Calculate(date, trades))
}

func TestRollupByStrategy(t *testing.T) {
	t.Parallel()

	trades := []blotter.TradeRecord{
		trade("T1", "momentum", "AAPL", "ACME", blotter.Buy, 100, "10.00", "1.00"),  // -1001.00
		trade("T2", "momentum", "AAPL", "ACME", blotter.Sell, 100, "11.00", "1.00"), // +1099.00
		trade("T3", "momentum", "MSFT", "ACME", blotter.Sell, 10, "200.00", "2.00"), // +1998.00
	}

	rollup := RollupByStrategy(Calculate(date, trades))
	require.Len(t, rollup, 1)

	s := rollup[0]
	assert.Equal(t, "momentum", s.Strategy)
	assert.Equal(t, int64(2), s.Symbols)
	assert.Equal(t, int64(3), s.Trades)
	assert.True(t, s.NetPnl.Equal(dec("2092.00")), "got %s", s.NetPnl)
	// 2092.00 / 2 symbols
	assert.True(t, s.AvgPerSymbol.Equal(dec("1046.00")), "got %s", s.AvgPerSymbol)
}
