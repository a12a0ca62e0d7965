package recon

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/blotter"
)

// ReconcilePositions diffs internal against broker net positions for every
// (account, symbol) present on either side. A key missing from one side
// reconciles against zero. Output is sorted by (account, symbol).
func ReconcilePositions(date string, internal, broker []blotter.PositionSnapshot, tol Tolerances, th Thresholds) []PositionBreak {
	type key struct{ account, symbol string }

	in := make(map[key]int64, len(internal))
	for _, p := range internal {
		in[key{p.Account, p.Symbol}] = p.NetPosition
	}
	br := make(map[key]int64, len(broker))
	for _, p := range broker {
		br[key{p.Account, p.Symbol}] = p.NetPosition
	}

	keys := make([]key, 0, len(in)+len(br))
	for k := range in {
		keys = append(keys, k)
	}
	for k := range br {
		if _, ok := in[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].account != keys[j].account {
			return keys[i].account < keys[j].account
		}
		return keys[i].symbol < keys[j].symbol
	})

	var breaks []PositionBreak
	for _, k := range keys {
		iv, bv := in[k], br[k]
		diff := iv - bv
		if abs64(diff) <= tol.Position {
			continue
		}
		breaks = append(breaks, PositionBreak{
			ReconDate:  date,
			Account:    k.account,
			Symbol:     k.symbol,
			Type:       PositionMismatch,
			Severity:   severityForUnits(abs64(diff), th),
			Internal:   iv,
			Broker:     bv,
			Difference: diff,
		})
	}
	return breaks
}

// ReconcileCash diffs internal against broker net cash balances per
// (account, currency). The tolerance is normally non-zero to absorb rounding
// accumulated across many rows.
func ReconcileCash(date string, internal, broker []blotter.CashSnapshot, tol Tolerances, th Thresholds) []CashBreak {
	type key struct{ account, currency string }

	in := make(map[key]decimal.Decimal, len(internal))
	for _, c := range internal {
		in[key{c.Account, c.Currency}] = c.NetBalance
	}
	br := make(map[key]decimal.Decimal, len(broker))
	for _, c := range broker {
		br[key{c.Account, c.Currency}] = c.NetBalance
	}

	keys := make([]key, 0, len(in)+len(br))
	for k := range in {
		keys = append(keys, k)
	}
	for k := range br {
		if _, ok := in[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].account != keys[j].account {
			return keys[i].account < keys[j].account
		}
		return keys[i].currency < keys[j].currency
	})

	var breaks []CashBreak
	for _, k := range keys {
		iv, bv := in[k], br[k]
		diff := iv.Sub(bv)
		if diff.Abs().LessThanOrEqual(tol.Cash) {
			continue
		}
		breaks = append(breaks, CashBreak{
			ReconDate:  date,
			Account:    k.account,
			Currency:   k.currency,
			Type:       CashMismatch,
			Severity:   severityFor(diff.Abs(), th),
			Internal:   iv,
			Broker:     bv,
			Difference: diff,
		})
	}
	return breaks
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
