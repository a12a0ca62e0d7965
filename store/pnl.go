package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/pnl"
)

// ReplacePnl swaps in the daily PnL set for a date.
func (s *SQLite) ReplacePnl(ctx context.Context, date string, records []pnl.Record) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM daily_pnl WHERE pnl_date = ?", date); err != nil {
			return err
		}
		for _, r := range records {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO daily_pnl
				(pnl_date, strategy, symbol, account, trade_count, realized_pnl, fees_total, net_pnl)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				r.PnlDate, r.Strategy, r.Symbol, r.Account, r.TradeCount,
				r.RealizedPnl.String(), r.FeesTotal.String(), r.NetPnl.String())
			if err != nil {
				return fmt.Errorf("insert pnl %s/%s/%s: %w", r.Strategy, r.Symbol, r.Account, err)
			}
		}
		return nil
	})
}

// PnlForDate returns the date's PnL records ordered by (strategy, symbol, account).
func (s *SQLite) PnlForDate(ctx context.Context, date string) ([]pnl.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pnl_date, strategy, symbol, account, trade_count, realized_pnl, fees_total, net_pnl
		FROM daily_pnl
		WHERE pnl_date = ?
		ORDER BY strategy, symbol, account`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pnl.Record
	for rows.Next() {
		var (
			r        pnl.Record
			realized string
			fees     string
			net      string
		)
		if err := rows.Scan(&r.PnlDate, &r.Strategy, &r.Symbol, &r.Account, &r.TradeCount, &realized, &fees, &net); err != nil {
			return nil, err
		}
		if r.RealizedPnl, err = decimal.NewFromString(realized); err != nil {
			return nil, err
		}
		if r.FeesTotal, err = decimal.NewFromString(fees); err != nil {
			return nil, err
		}
		if r.NetPnl, err = decimal.NewFromString(net); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
