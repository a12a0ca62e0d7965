package recon

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/blotter"
)

// MatchTrades full-outer-joins the two trade sets on trade_id and returns
// every break for the date. An entirely absent side is an empty set, so every
// trade on the other side breaks as missing or phantom; absence of data is
// itself the finding. Exact agreement on all compared fields emits nothing.
//
// Output is sorted by (trade_id, break_type), so identical inputs always
// yield an identical break set.
func MatchTrades(date string, internal, broker []blotter.TradeRecord, tol Tolerances, th Thresholds) []TradeBreak {
	in := make(map[string]blotter.TradeRecord, len(internal))
	for _, t := range internal {
		in[t.TradeID] = t
	}
	br := make(map[string]blotter.TradeRecord, len(broker))
	for _, t := range broker {
		br[t.TradeID] = t
	}

	ids := make([]string, 0, len(in)+len(br))
	for id := range in {
		ids = append(ids, id)
	}
	for id := range br {
		if _, ok := in[id]; !ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var breaks []TradeBreak
	for _, id := range ids {
		it, inOK := in[id]
		bt, brOK := br[id]

		switch {
		case inOK && !brOK:
			impact := it.Principal.Abs()
			breaks = append(breaks, TradeBreak{
				ReconDate:      date,
				TradeID:        id,
				Symbol:         it.Symbol,
				Account:        it.Account,
				Type:           MissingAtCounterparty,
				Severity:       atLeastHigh(severityFor(impact, th)),
				InternalValue:  nullDec(it.Principal),
				NotionalImpact: impact,
			})
		case !inOK && brOK:
			impact := bt.Principal.Abs()
			breaks = append(breaks, TradeBreak{
				ReconDate:      date,
				TradeID:        id,
				Symbol:         bt.Symbol,
				Account:        bt.Account,
				Type:           PhantomAtCounterparty,
				Severity:       atLeastHigh(severityFor(impact, th)),
				BrokerValue:    nullDec(bt.Principal),
				NotionalImpact: impact,
			})
		default:
			breaks = append(breaks, compareTrade(date, it, bt, tol, th)...)
		}
	}
	return breaks
}

// compareTrade checks price, quantity, fees and settlement date independently
// and emits one break per differing field.
func compareTrade(date string, it, bt blotter.TradeRecord, tol Tolerances, th Thresholds) []TradeBreak {
	var out []TradeBreak

	principalGap := it.Principal.Sub(bt.Principal).Abs()

	if it.Price.Sub(bt.Price).Abs().GreaterThan(tol.Price) {
		out = append(out, TradeBreak{
			ReconDate:      date,
			TradeID:        it.TradeID,
			Symbol:         it.Symbol,
			Account:        it.Account,
			Type:           PriceMismatch,
			Severity:       severityFor(principalGap, th),
			InternalValue:  nullDec(it.Price),
			BrokerValue:    nullDec(bt.Price),
			NotionalImpact: principalGap,
		})
	}

	if it.Quantity != bt.Quantity {
		out = append(out, TradeBreak{
			ReconDate:      date,
			TradeID:        it.TradeID,
			Symbol:         it.Symbol,
			Account:        it.Account,
			Type:           QuantityMismatch,
			Severity:       severityFor(principalGap, th),
			InternalValue:  nullDec(decimal.NewFromInt(it.Quantity)),
			BrokerValue:    nullDec(decimal.NewFromInt(bt.Quantity)),
			NotionalImpact: principalGap,
		})
	}

	if feeGap := it.Fees.Sub(bt.Fees).Abs(); feeGap.GreaterThan(tol.Fee) {
		out = append(out, TradeBreak{
			ReconDate:      date,
			TradeID:        it.TradeID,
			Symbol:         it.Symbol,
			Account:        it.Account,
			Type:           FeeMismatch,
			Severity:       severityFor(feeGap, th),
			InternalValue:  nullDec(it.Fees),
			BrokerValue:    nullDec(bt.Fees),
			NotionalImpact: feeGap,
		})
	}

	if it.SettlementDate != bt.SettlementDate {
		// Date breaks are operational, not monetary.
		out = append(out, TradeBreak{
			ReconDate:      date,
			TradeID:        it.TradeID,
			Symbol:         it.Symbol,
			Account:        it.Account,
			Type:           SettlementDateMismatch,
			Severity:       SeverityLow,
			NotionalImpact: decimal.Zero,
		})
	}

	return out
}

func nullDec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
