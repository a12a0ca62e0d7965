package blotter

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Positions derives net positions from a trade set: signed quantity summed
// per (account, symbol), buys positive, sells negative. Pure function of the
// input; output is sorted by (account, symbol) so repeated runs over the same
// trades produce identical slices.
func Positions(date string, trades []TradeRecord) []PositionSnapshot {
	type key struct{ account, symbol string }

	net := make(map[key]int64)
	for _, t := range trades {
		k := key{t.Account, t.Symbol}
		if t.Side == Sell {
			net[k] -= t.Quantity
		} else {
			net[k] += t.Quantity
		}
	}

	out := make([]PositionSnapshot, 0, len(net))
	for k, n := range net {
		out = append(out, PositionSnapshot{
			Account:      k.account,
			Symbol:       k.symbol,
			PositionDate: date,
			NetPosition:  n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Account != out[j].Account {
			return out[i].Account < out[j].Account
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// Cash derives net cash balances from a trade set: principal summed per
// (account, currency). Sorted by (account, currency).
func Cash(date string, trades []TradeRecord) []CashSnapshot {
	type key struct{ account, currency string }

	net := make(map[key]decimal.Decimal)
	for _, t := range trades {
		k := key{t.Account, t.Currency}
		net[k] = net[k].Add(t.Principal)
	}

	out := make([]CashSnapshot, 0, len(net))
	for k, n := range net {
		out = append(out, CashSnapshot{
			Account:    k.account,
			Currency:   k.currency,
			CashDate:   date,
			NetBalance: n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Account != out[j].Account {
			return out[i].Account < out[j].Account
		}
		return out[i].Currency < out[j].Currency
	})
	return out
}
