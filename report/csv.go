package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/recon"
)

// WriteBreaksCSV writes the break detail for analyst investigation, one row
// per break, in the same column order the triage sheets expect.
func WriteBreaksCSV(w io.Writer, breaks []recon.TradeBreak) error {
	cw := csv.NewWriter(w)

	header := []string{
		"recon_date", "trade_id", "symbol", "account", "break_type",
		"severity", "internal_value", "broker_value", "notional_impact", "resolved",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, b := range breaks {
		row := []string{
			b.ReconDate,
			b.TradeID,
			b.Symbol,
			b.Account,
			string(b.Type),
			string(b.Severity),
			nullDecCSV(b.InternalValue),
			nullDecCSV(b.BrokerValue),
			b.NotionalImpact.StringFixed(2),
			strconv.FormatBool(b.Resolved),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func nullDecCSV(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}
