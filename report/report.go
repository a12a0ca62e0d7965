// Package report renders reconciliation and PnL output for the operator:
// grouped break summaries, top-break listings, PnL tables and a CSV export
// of the break detail for analyst triage.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/pnl"
	"github.com/rustyeddy/tradeops/recon"
	"github.com/rustyeddy/tradeops/store"
)

// BreakSummaryRow aggregates breaks sharing a (type, severity).
type BreakSummaryRow struct {
	Type     recon.BreakType
	Severity recon.Severity
	Count    int64
	Total    decimal.Decimal
	Average  decimal.Decimal
}

var severityRank = map[recon.Severity]int{
	recon.SeverityCritical: 0,
	recon.SeverityHigh:     1,
	recon.SeverityMedium:   2,
	recon.SeverityLow:      3,
}

// SummarizeTradeBreaks groups by (type, severity) with count, total and
// average notional impact, ordered worst severity first.
func SummarizeTradeBreaks(breaks []recon.TradeBreak) []BreakSummaryRow {
	type key struct {
		t recon.BreakType
		s recon.Severity
	}
	groups := make(map[key]*BreakSummaryRow)
	for _, b := range breaks {
		k := key{b.Type, b.Severity}
		row, ok := groups[k]
		if !ok {
			row = &BreakSummaryRow{Type: b.Type, Severity: b.Severity}
			groups[k] = row
		}
		row.Count++
		row.Total = row.Total.Add(b.NotionalImpact)
	}

	out := make([]BreakSummaryRow, 0, len(groups))
	for _, row := range groups {
		row.Average = row.Total.DivRound(decimal.NewFromInt(row.Count), 2)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if severityRank[out[i].Severity] != severityRank[out[j].Severity] {
			return severityRank[out[i].Severity] < severityRank[out[j].Severity]
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// FormatTradeBreakSummary renders the grouped summary as a fixed-width table.
func FormatTradeBreakSummary(rows []BreakSummaryRow) string {
	var b strings.Builder
	b.WriteString("RECONCILIATION REPORT\n")
	b.WriteString(strings.Repeat("=", 78) + "\n")

	if len(rows) == 0 {
		b.WriteString("Perfect match, no breaks found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-25s | %-10s | %8s | %15s | %12s\n", "BREAK TYPE", "SEVERITY", "COUNT", "TOTAL $", "AVG $")
	b.WriteString(strings.Repeat("-", 78) + "\n")

	var total int64
	for _, r := range rows {
		fmt.Fprintf(&b, "%-25s | %-10s | %8d | %15s | %12s\n",
			r.Type, r.Severity, r.Count, r.Total.StringFixed(2), r.Average.StringFixed(2))
		total += r.Count
	}
	b.WriteString(strings.Repeat("-", 78) + "\n")
	fmt.Fprintf(&b, "Total breaks found: %d\n", total)
	return b.String()
}

// FormatTopBreaks renders the largest HIGH/CRITICAL breaks for triage.
func FormatTopBreaks(breaks []recon.TradeBreak) string {
	var b strings.Builder
	b.WriteString("TOP BREAKS\n")
	b.WriteString(strings.Repeat("=", 78) + "\n")

	if len(breaks) == 0 {
		b.WriteString("No HIGH or CRITICAL breaks.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-15s | %-25s | %-8s | %15s\n", "TRADE ID", "BREAK TYPE", "SYMBOL", "IMPACT $")
	b.WriteString(strings.Repeat("-", 78) + "\n")
	for _, br := range breaks {
		fmt.Fprintf(&b, "%-15s | %-25s | %-8s | %15s\n",
			br.TradeID, br.Type, br.Symbol, br.NotionalImpact.StringFixed(2))
	}
	return b.String()
}

// FormatPositionBreaks renders the date's position breaks.
func FormatPositionBreaks(breaks []recon.PositionBreak) string {
	var b strings.Builder
	b.WriteString("POSITION RECONCILIATION\n")
	b.WriteString(strings.Repeat("=", 78) + "\n")

	if len(breaks) == 0 {
		b.WriteString("Perfect match, no breaks found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-15s | %-8s | %-10s | %12s | %12s | %10s\n",
		"ACCOUNT", "SYMBOL", "SEVERITY", "INTERNAL", "BROKER", "DIFF")
	b.WriteString(strings.Repeat("-", 78) + "\n")
	for _, br := range breaks {
		fmt.Fprintf(&b, "%-15s | %-8s | %-10s | %12d | %12d | %10d\n",
			br.Account, br.Symbol, br.Severity, br.Internal, br.Broker, br.Difference)
	}
	return b.String()
}

// FormatCashBreaks renders the date's cash breaks.
func FormatCashBreaks(breaks []recon.CashBreak) string {
	var b strings.Builder
	b.WriteString("CASH RECONCILIATION\n")
	b.WriteString(strings.Repeat("=", 78) + "\n")

	if len(breaks) == 0 {
		b.WriteString("Perfect match, no breaks found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-15s | %-8s | %-10s | %15s | %15s | %12s\n",
		"ACCOUNT", "CCY", "SEVERITY", "INTERNAL $", "BROKER $", "DIFF $")
	b.WriteString(strings.Repeat("-", 78) + "\n")
	for _, br := range breaks {
		fmt.Fprintf(&b, "%-15s | %-8s | %-10s | %15s | %15s | %12s\n",
			br.Account, br.Currency, br.Severity,
			br.Internal.StringFixed(2), br.Broker.StringFixed(2), br.Difference.StringFixed(2))
	}
	return b.String()
}

// FormatPnlSummary renders the strategy rollup with a totals row.
func FormatPnlSummary(rows []pnl.StrategySummary) string {
	var b strings.Builder
	b.WriteString("DAILY PNL REPORT\n")
	b.WriteString(strings.Repeat("=", 100) + "\n")

	if len(rows) == 0 {
		b.WriteString("No trades found for PnL calculation.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-20s | %7s | %7s | %15s | %12s | %15s | %12s\n",
		"STRATEGY", "SYMBOLS", "TRADES", "REALIZED $", "FEES $", "NET $", "AVG/SYMBOL")
	b.WriteString(strings.Repeat("-", 100) + "\n")

	var (
		trades int64
		fees   decimal.Decimal
		net    decimal.Decimal
	)
	for _, r := range rows {
		fmt.Fprintf(&b, "%-20s | %7d | %7d | %15s | %12s | %15s | %12s\n",
			r.Strategy, r.Symbols, r.Trades,
			r.RealizedPnl.StringFixed(2), r.FeesTotal.StringFixed(2),
			r.NetPnl.StringFixed(2), r.AvgPerSymbol.StringFixed(2))
		trades += r.Trades
		fees = fees.Add(r.FeesTotal)
		net = net.Add(r.NetPnl)
	}
	b.WriteString(strings.Repeat("-", 100) + "\n")
	fmt.Fprintf(&b, "%-20s | %7s | %7d | %15s | %12s | %15s | %12s\n",
		"TOTAL", "", trades, "", fees.StringFixed(2), net.StringFixed(2), "")
	return b.String()
}

// FormatRuns renders the pipeline audit trail for a date.
func FormatRuns(runs []store.PipelineRun) string {
	var b strings.Builder
	b.WriteString("PIPELINE RUNS\n")
	b.WriteString(strings.Repeat("=", 100) + "\n")

	if len(runs) == 0 {
		b.WriteString("No runs recorded.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%-30s | %-8s | %10s | %8s | %8s | %s\n",
		"PIPELINE", "STATUS", "DURATION", "ROWS", "BREAKS", "ERROR")
	b.WriteString(strings.Repeat("-", 100) + "\n")
	for _, r := range runs {
		fmt.Fprintf(&b, "%-30s | %-8s | %10s | %8d | %8d | %s\n",
			r.Pipeline, r.Status, r.Duration.Round(time.Millisecond), r.RowsProcessed, r.BreaksFound, r.ErrorMessage)
	}
	return b.String()
}
