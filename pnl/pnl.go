// Package pnl computes end-of-day realized profit-and-loss from the internal
// trade set. Principal already carries each trade's signed cash impact, so
// realized PnL for a group is the principal sum; fees are summed separately
// and netted off. There is no inventory carry across dates.
package pnl

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/blotter"
)

// Record is the daily PnL for one (strategy, symbol, account) group.
// NetPnl = RealizedPnl - FeesTotal, exactly.
type Record struct {
	PnlDate     string
	Strategy    string
	Symbol      string
	Account     string
	TradeCount  int64
	RealizedPnl decimal.Decimal
	FeesTotal   decimal.Decimal
	NetPnl      decimal.Decimal
}

// StrategySummary rolls Records up to one row per strategy.
type StrategySummary struct {
	Strategy     string
	Symbols      int64
	Trades       int64
	RealizedPnl  decimal.Decimal
	FeesTotal    decimal.Decimal
	NetPnl       decimal.Decimal
	AvgPerSymbol decimal.Decimal
}

// Calculate groups the internal trades by (strategy, symbol, account) and
// returns one Record per group, sorted by the group key. Groups with no
// trades simply do not appear; there are no zero rows.
func Calculate(date string, trades []blotter.TradeRecord) []Record {
	type key struct{ strategy, symbol, account string }

	groups := make(map[key]*Record)
	for _, t := range trades {
		k := key{t.Strategy, t.Symbol, t.Account}
		r, ok := groups[k]
		if !ok {
			r = &Record{
				PnlDate:  date,
				Strategy: t.Strategy,
				Symbol:   t.Symbol,
				Account:  t.Account,
			}
			groups[k] = r
		}
		r.TradeCount++
		r.RealizedPnl = r.RealizedPnl.Add(t.Principal)
		r.FeesTotal = r.FeesTotal.Add(t.Fees)
	}

	out := make([]Record, 0, len(groups))
	for _, r := range groups {
		r.NetPnl = r.RealizedPnl.Sub(r.FeesTotal)
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Strategy != b.Strategy {
			return a.Strategy < b.Strategy
		}
		if a.Symbol != b.Symbol {
			return a.Symbol < b.Symbol
		}
		return a.Account < b.Account
	})
	return out
}

// RollupByStrategy aggregates per-group records to one summary per strategy,
// sorted by strategy. AvgPerSymbol is net PnL divided by the strategy's
// distinct symbol count, rounded to cents.
func RollupByStrategy(records []Record) []StrategySummary {
	sums := make(map[string]*StrategySummary)
	symbols := make(map[string]map[string]bool)

	for _, r := range records {
		s, ok := sums[r.Strategy]
		if !ok {
			s = &StrategySummary{Strategy: r.Strategy}
			sums[r.Strategy] = s
			symbols[r.Strategy] = make(map[string]bool)
		}
		symbols[r.Strategy][r.Symbol] = true
		s.Trades += r.TradeCount
		s.RealizedPnl = s.RealizedPnl.Add(r.RealizedPnl)
		s.FeesTotal = s.FeesTotal.Add(r.FeesTotal)
		s.NetPnl = s.NetPnl.Add(r.NetPnl)
	}

	out := make([]StrategySummary, 0, len(sums))
	for name, s := range sums {
		s.Symbols = int64(len(symbols[name]))
		if s.Symbols > 0 {
			s.AvgPerSymbol = s.NetPnl.DivRound(decimal.NewFromInt(s.Symbols), 2)
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strategy < out[j].Strategy })
	return out
}
