package feed

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/blotter"
)

// header maps column names (first CSV row) to indexes.
type header map[string]int

func readHeader(r *csv.Reader) (header, error) {
	row, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := make(header, len(row))
	for i, name := range row {
		h[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return h, nil
}

func (h header) get(row []string, name string) (string, error) {
	i, ok := h[name]
	if !ok {
		return "", fmt.Errorf("missing column %q", name)
	}
	if i >= len(row) {
		return "", fmt.Errorf("short row: no value for %q", name)
	}
	return strings.TrimSpace(row[i]), nil
}

func (h header) dec(row []string, name string) (decimal.Decimal, error) {
	s, err := h.get(row, name)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %q: %w", name, err)
	}
	return d, nil
}

func (h header) int(row []string, name string) (int64, error) {
	s, err := h.get(row, name)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return n, nil
}

// ReadTrades parses one trade feed file into blotter rows. Rows are parsed,
// not validated; validation is the engines' job so a malformed row fails the
// run, never the load.
func ReadTrades(path string) ([]blotter.TradeRecord, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	h, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var out []blotter.TradeRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		t, err := tradeFromRow(h, row)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func tradeFromRow(h header, row []string) (blotter.TradeRecord, error) {
	var (
		t   blotter.TradeRecord
		err error
	)

	str := func(name string) string {
		if err != nil {
			return ""
		}
		var s string
		s, err = h.get(row, name)
		return s
	}

	t.TradeID = str("trade_id")
	t.TradeDate = str("trade_date")
	t.Symbol = str("symbol")
	t.Account = str("account")
	t.Strategy = str("strategy")
	t.Venue = str("venue")
	t.Side = blotter.Side(strings.ToUpper(str("side")))
	t.Currency = str("currency")
	if err != nil {
		return t, err
	}

	// settlement_date is nullable upstream; a blank cell stays blank.
	if _, ok := h["settlement_date"]; ok {
		if t.SettlementDate, err = h.get(row, "settlement_date"); err != nil {
			return t, err
		}
	}

	if t.Quantity, err = h.int(row, "quantity"); err != nil {
		return t, err
	}
	if t.Price, err = h.dec(row, "price"); err != nil {
		return t, err
	}
	if t.Fees, err = h.dec(row, "fees"); err != nil {
		return t, err
	}
	if t.Principal, err = h.dec(row, "principal"); err != nil {
		return t, err
	}
	return t, nil
}

// ReadPositions parses one position feed file.
func ReadPositions(path string) ([]blotter.PositionSnapshot, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	h, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var out []blotter.PositionSnapshot
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		var p blotter.PositionSnapshot
		if p.Account, err = h.get(row, "account"); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if p.Symbol, err = h.get(row, "symbol"); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if p.PositionDate, err = h.get(row, "position_date"); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if p.NetPosition, err = h.int(row, "net_position"); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// ReadCash parses one cash feed file.
func ReadCash(path string) ([]blotter.CashSnapshot, error) {
	rc, err := open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	h, err := readHeader(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var out []blotter.CashSnapshot
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}

		var c blotter.CashSnapshot
		if c.Account, err = h.get(row, "account"); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if c.Currency, err = h.get(row, "currency"); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if c.CashDate, err = h.get(row, "cash_date"); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		if c.NetBalance, err = h.dec(row, "net_cash_balance"); err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		out = append(out, c)
	}
	return out, nil
}
