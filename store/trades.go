package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/blotter"
)

func tradeTable(src blotter.Source) (string, error) {
	switch src {
	case blotter.Internal:
		return "internal_trades", nil
	case blotter.Broker:
		return "broker_trades", nil
	default:
		return "", fmt.Errorf("unknown source %q", src)
	}
}

// ReplaceTrades swaps in the full trade set for one (source, date):
// delete-then-insert in a single transaction.
func (s *SQLite) ReplaceTrades(ctx context.Context, src blotter.Source, date string, trades []blotter.TradeRecord) error {
	table, err := tradeTable(src)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE trade_date = ?", date); err != nil {
			return fmt.Errorf("delete %s for %s: %w", table, date, err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO `+table+`
			(trade_id, trade_date, settlement_date, symbol, account, strategy, venue, side, quantity, price, fees, currency, principal)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range trades {
			_, err := stmt.ExecContext(ctx,
				t.TradeID, t.TradeDate, nullStr(t.SettlementDate),
				t.Symbol, t.Account, t.Strategy, t.Venue, string(t.Side),
				t.Quantity, t.Price.String(), t.Fees.String(), t.Currency, t.Principal.String(),
			)
			if err != nil {
				return fmt.Errorf("insert trade %s: %w", t.TradeID, err)
			}
		}
		return nil
	})
}

// TradesForDate returns the stored trade set for one (source, date), ordered
// by trade_id. An unloaded date is an empty slice, not an error.
func (s *SQLite) TradesForDate(ctx context.Context, src blotter.Source, date string) ([]blotter.TradeRecord, error) {
	table, err := tradeTable(src)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, trade_date, settlement_date, symbol, account, strategy, venue, side, quantity, price, fees, currency, principal
		FROM `+table+`
		WHERE trade_date = ?
		ORDER BY trade_id`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []blotter.TradeRecord
	for rows.Next() {
		var (
			t          blotter.TradeRecord
			settlement sql.NullString
			side       string
			price      string
			fees       string
			principal  string
		)
		if err := rows.Scan(
			&t.TradeID, &t.TradeDate, &settlement,
			&t.Symbol, &t.Account, &t.Strategy, &t.Venue, &side,
			&t.Quantity, &price, &fees, &t.Currency, &principal,
		); err != nil {
			return nil, err
		}
		t.SettlementDate = settlement.String
		t.Side = blotter.Side(side)
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("trade %s price: %w", t.TradeID, err)
		}
		if t.Fees, err = decimal.NewFromString(fees); err != nil {
			return nil, fmt.Errorf("trade %s fees: %w", t.TradeID, err)
		}
		if t.Principal, err = decimal.NewFromString(principal); err != nil {
			return nil, fmt.Errorf("trade %s principal: %w", t.TradeID, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
