package report

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradeops/pnl"
	"github.com/rustyeddy/tradeops/recon"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nd(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func tradeBreak(id string, bt recon.BreakType, sev recon.Severity, impact string) recon.TradeBreak {
	return recon.TradeBreak{
		ReconDate:      "2026-08-28",
		TradeID:        id,
		Symbol:         "AAPL",
		Account:        "ACME",
		Type:           bt,
		Severity:       sev,
		NotionalImpact: dec(impact),
	}
}

func TestSummarizeTradeBreaks(t *testing.T) {
	t.Parallel()

	breaks := []recon.TradeBreak{
		tradeBreak("T1", recon.PriceMismatch, recon.SeverityLow, "5.00"),
		tradeBreak("T2", recon.PriceMismatch, recon.SeverityLow, "7.00"),
		tradeBreak("T3", recon.MissingAtCounterparty, recon.SeverityHigh, "1001.00"),
		tradeBreak("T4", recon.QuantityMismatch, recon.SeverityCritical, "15000.00"),
	}

	rows := SummarizeTradeBreaks(breaks)
	require.Len(t, rows, 3)

	// Worst severity first.
	assert.Equal(t, recon.SeverityCritical, rows[0].Severity)
	assert.Equal(t, recon.SeverityHigh, rows[1].Severity)
	assert.Equal(t, recon.SeverityLow, rows[2].Severity)

	low := rows[2]
	assert.Equal(t, recon.PriceMismatch, low.Type)
	assert.Equal(t, int64(2), low.Count)
	assert.True(t, low.Total.Equal(dec("12.00")), "got %s", low.Total)
	assert.True(t, low.Average.Equal(dec("6.00")), "got %s", low.Average)
}

func TestSummarizeTradeBreaksEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, SummarizeTradeBreaks(nil))
	assert.Contains(t, FormatTradeBreakSummary(nil), "Perfect match")
}

func TestFormatTradeBreakSummary(t *testing.T) {
	t.Parallel()

	rows := SummarizeTradeBreaks([]recon.TradeBreak{
		tradeBreak("T1", recon.PriceMismatch, recon.SeverityLow, "5.00"),
		tradeBreak("T2", recon.MissingAtCounterparty, recon.SeverityHigh, "1001.00"),
	})

	out := FormatTradeBreakSummary(rows)
	assert.Contains(t, out, "RECONCILIATION REPORT")
	assert.Contains(t, out, string(recon.PriceMismatch))
	assert.Contains(t, out, string(recon.MissingAtCounterparty))
	assert.Contains(t, out, "Total breaks found: 2")

	// HIGH row renders above the LOW row.
	high := strings.Index(out, string(recon.MissingAtCounterparty))
	low := strings.Index(out, string(recon.PriceMismatch))
	assert.Less(t, high, low)
}

func TestFormatTopBreaks(t *testing.T) {
	t.Parallel()

	out := FormatTopBreaks([]recon.TradeBreak{
		tradeBreak("T9", recon.QuantityMismatch, recon.SeverityCritical, "15000.00"),
	})
	assert.Contains(t, out, "T9")
	assert.Contains(t, out, "15000.00")

	assert.Contains(t, FormatTopBreaks(nil), "No HIGH or CRITICAL breaks.")
}

func TestFormatPositionAndCashBreaks(t *testing.T) {
	t.Parallel()

	pos := FormatPositionBreaks([]recon.PositionBreak{{
		ReconDate:  "2026-08-28",
		Account:    "ACME",
		Symbol:     "AAPL",
		Type:       recon.PositionMismatch,
		Severity:   recon.SeverityMedium,
		Internal:   500,
		Broker:     480,
		Difference: 20,
	}})
	assert.Contains(t, pos, "ACME")
	assert.Contains(t, pos, "500")
	assert.Contains(t, pos, "480")

	cash := FormatCashBreaks([]recon.CashBreak{{
		ReconDate:  "2026-08-28",
		Account:    "ACME",
		Currency:   "USD",
		Type:       recon.CashMismatch,
		Severity:   recon.SeverityLow,
		Internal:   dec("-5001.00"),
		Broker:     dec("-4801.00"),
		Difference: dec("-200.00"),
	}})
	assert.Contains(t, cash, "USD")
	assert.Contains(t, cash, "-200.00")

	assert.Contains(t, FormatPositionBreaks(nil), "Perfect match")
	assert.Contains(t, FormatCashBreaks(nil), "Perfect match")
}

func TestFormatPnlSummaryTotals(t *testing.T) {
	t.Parallel()

	rows := []pnl.StrategySummary{
		{Strategy: "momentum", Symbols: 2, Trades: 3, RealizedPnl: dec("2096.00"), FeesTotal: dec("4.00"), NetPnl: dec("2092.00"), AvgPerSymbol: dec("1046.00")},
		{Strategy: "meanrev", Symbols: 1, Trades: 1, RealizedPnl: dec("-500.50"), FeesTotal: dec("0.50"), NetPnl: dec("-501.00"), AvgPerSymbol: dec("-501.00")},
	}

	out := FormatPnlSummary(rows)
	assert.Contains(t, out, "momentum")
	assert.Contains(t, out, "meanrev")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "1591.00", "totals row net = 2092.00 - 501.00")
	assert.Contains(t, out, "4.50", "totals row fees")

	assert.Contains(t, FormatPnlSummary(nil), "No trades found")
}

func TestWriteBreaksCSV(t *testing.T) {
	t.Parallel()

	b := tradeBreak("T1", recon.PriceMismatch, recon.SeverityLow, "5.00")
	b.InternalValue = nd("10.00")
	b.BrokerValue = nd("10.05")

	missing := tradeBreak("T2", recon.MissingAtCounterparty, recon.SeverityHigh, "1001.00")
	missing.InternalValue = nd("-1001.00")

	var sb strings.Builder
	require.NoError(t, WriteBreaksCSV(&sb, []recon.TradeBreak{b, missing}))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t,
		"recon_date,trade_id,symbol,account,break_type,severity,internal_value,broker_value,notional_impact,resolved",
		lines[0])
	assert.Equal(t, "2026-08-28,T1,AAPL,ACME,PRICE_MISMATCH,LOW,10.00,10.05,5.00,false", lines[1])

	// Absent broker value stays an empty field.
	assert.Contains(t, lines[2], ",-1001.00,,1001.00,false")
}
