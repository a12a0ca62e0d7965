package recon

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

func defaultTolerances() Tolerances {
	return Tolerances{
		Price:    dec("0.001"),
		Fee:      dec("0.01"),
		Cash:     dec("0.01"),
		Position: 0,
	}
}

func defaultThresholds() Thresholds {
	return Thresholds{
		Critical:         dec("10000"),
		High:             dec("1000"),
		Medium:           dec("100"),
		PositionCritical: 1000,
		PositionHigh:     100,
		PositionMedium:   10,
	}
}

func trade(id string, side blotter.Side, qty int64, price, fees string) blotter.TradeRecord {
	r := blotter.TradeRecord{
		TradeID:        id,
		TradeDate:      date,
		SettlementDate: "2026-08-30",
		Symbol:         "AAPL",
		Account:        "ACME",
		Strategy:       "momentum",
		Venue:          "NASDAQ",
		Side:           side,
		Quantity:       qty,
		Price:          dec(price),
		Fees:           dec(fees),
		Currency:       "USD",
	}
	r.Principal = blotter.Principal(side, qty, r.Price, r.Fees)
	return r
}

func TestMatchTradesPerfectMatch(t *testing.T) {
	t.Parallel()

	internal := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.00", "1.00")}
	broker := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.00", "1.00")}

	breaks := MatchTrades(date, internal, broker, defaultTolerances(), defaultThresholds())
	assert.Empty(t, breaks, "identical trades must emit no breaks")
}

func TestMatchTradesMissingAtCounterparty(t *testing.T) {
	t.Parallel()

	internal := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.00", "1.00")}

	breaks := MatchTrades(date, internal, nil, defaultTolerances(), defaultThresholds())
	require.Len(t, breaks, 1)

	b := breaks[0]
	assert.Equal(t, MissingAtCounterparty, b.Type)
	assert.Equal(t, "T1", b.TradeID)
	assert.True(t, b.NotionalImpact.Equal(dec("1001.00")), "got %s", b.NotionalImpact)
	assert.True(t, b.InternalValue.Valid)
	assert.False(t, b.BrokerValue.Valid)
	// |principal| is above the HIGH threshold here, and the floor keeps it there.
	assert.Equal(t, SeverityHigh, b.Severity)
}

func TestMatchTradesMissingFloorsAtHigh(t *testing.T) {
	t.Parallel()

	// Tiny notional would band LOW; missing trades are still operationally severe.
	internal := []blotter.TradeRecord{trade("T1", blotter.Buy, 1, "5.00", "0.10")}

	breaks := MatchTrades(date, internal, nil, defaultTolerances(), defaultThresholds())
	require.Len(t, breaks, 1)
	assert.Equal(t, SeverityHigh, breaks[0].Severity)
}

func TestMatchTradesPhantomWholeSideAbsent(t *testing.T) {
	t.Parallel()

	broker := []blotter.TradeRecord{
		trade("T1", blotter.Buy, 100, "10.00", "1.00"),
		trade("T2", blotter.Sell, 50, "20.00", "0.50"),
		trade("T3", blotter.Buy, 10, "1.00", "0.10"),
	}

	breaks := MatchTrades(date, nil, broker, defaultTolerances(), defaultThresholds())
	require.Len(t, breaks, 3)
	for _, b := range breaks {
		assert.Equal(t, PhantomAtCounterparty, b.Type)
		assert.Contains(t, []Severity{SeverityHigh, SeverityCritical}, b.Severity)
		assert.False(t, b.InternalValue.Valid)
		assert.True(t, b.BrokerValue.Valid)
	}
}

func TestMatchTradesPriceMismatch(t *testing.T) {
	t.Parallel()

	// Spec scenario: BUY 100 AAPL @ 10.00 fee 1.00 vs broker price 10.05.
	internal := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.00", "1.00")}
	broker := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.05", "1.00")}

	breaks := MatchTrades(date, internal, broker, defaultTolerances(), defaultThresholds())
	require.Len(t, breaks, 1)

	b := breaks[0]
	assert.Equal(t, PriceMismatch, b.Type)
	assert.True(t, b.NotionalImpact.Equal(dec("5.00")), "got %s", b.NotionalImpact)
	assert.Equal(t, SeverityLow, b.Severity)
	assert.True(t, b.InternalValue.Decimal.Equal(dec("10.00")))
	assert.True(t, b.BrokerValue.Decimal.Equal(dec("10.05")))
}

func TestMatchTradesPriceWithinTolerance(t *testing.T) {
	t.Parallel()

	internal := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.0000", "1.00")}
	broker := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.0005", "1.00")}

	breaks := MatchTrades(date, internal, broker, defaultTolerances(), defaultThresholds())
	assert.Empty(t, breaks)
}

func TestMatchTradesMultipleFieldBreaks(t *testing.T) {
	t.Parallel()

	internal := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.00", "1.00")}
	bt := trade("T1", blotter.Buy, 90, "10.50", "2.00")
	bt.SettlementDate = "2026-08-31"

	breaks := MatchTrades(date, internal, []blotter.TradeRecord{bt}, defaultTolerances(), defaultThresholds())
	require.Len(t, breaks, 4, "one break per differing field")

	types := make([]BreakType, 0, len(breaks))
	for _, b := range breaks {
		types = append(types, b.Type)
	}
	assert.ElementsMatch(t, []BreakType{PriceMismatch, QuantityMismatch, FeeMismatch, SettlementDateMismatch}, types)
}

func TestMatchTradesFeeMismatchImpact(t *testing.T) {
	t.Parallel()

	internal := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.00", "1.00")}
	broker := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.00", "3.50")}

	breaks := MatchTrades(date, internal, broker, defaultTolerances(), defaultThresholds())
	require.Len(t, breaks, 1)
	assert.Equal(t, FeeMismatch, breaks[0].Type)
	assert.True(t, breaks[0].NotionalImpact.Equal(dec("2.50")), "got %s", breaks[0].NotionalImpact)
}

func TestMatchTradesSettlementDateImpactIsZero(t *testing.T) {
	t.Parallel()

	internal := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.00", "1.00")}
	bt := trade("T1", blotter.Buy, 100, "10.00", "1.00")
	bt.SettlementDate = "2026-09-01"

	breaks := MatchTrades(date, internal, []blotter.TradeRecord{bt}, defaultTolerances(), defaultThresholds())
	require.Len(t, breaks, 1)
	assert.Equal(t, SettlementDateMismatch, breaks[0].Type)
	assert.True(t, breaks[0].NotionalImpact.IsZero())
	assert.Equal(t, SeverityLow, breaks[0].Severity)
}

func TestMatchTradesSeverityBands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		brokerPrice string
		want        Severity
	}{
		{"low", "10.05", SeverityLow},            // impact 5
		{"medium", "12.00", SeverityMedium},      // impact 200
		{"high", "25.00", SeverityHigh},          // impact 1500
		{"critical", "150.00", SeverityCritical}, // impact 14000
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			internal := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, "10.00", "1.00")}
			broker := []blotter.TradeRecord{trade("T1", blotter.Buy, 100, tt.brokerPrice, "1.00")}

			breaks := MatchTrades(date, internal, broker, defaultTolerances(), defaultThresholds())
			require.Len(t, breaks, 1)
			assert.Equal(t, tt.want, breaks[0].Severity)
		})
	}
}

func TestMatchTradesIdempotent(t *testing.T) {
	t.Parallel()

	internal := []blotter.TradeRecord{
		trade("T3", blotter.Buy, 100, "10.00", "1.00"),
		trade("T1", blotter.Sell, 50, "20.00", "0.50"),
		trade("T2", blotter.Buy, 10, "1.00", "0.10"),
	}
	broker := []blotter.TradeRecord{
		trade("T2", blotter.Buy, 10, "1.05", "0.10"),
		trade("T4", blotter.Sell, 5, "2.00", "0.05"),
	}

	first := MatchTrades(date, internal, broker, defaultTolerances(), defaultThresholds())
	second := MatchTrades(date, internal, broker, defaultTolerances(), defaultThresholds())
	assert.Equal(t, first, second, "identical input must yield an identical break set")

	// And sorted by trade_id, so storage order is stable too.
	for i := 1; i < len(first); i++ {
		assert.LessOrEqual(t, first[i-1].TradeID, first[i].TradeID)
	}
}
