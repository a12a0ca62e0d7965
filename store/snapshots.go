package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/blotter"
)

func positionTable(src blotter.Source) (string, error) {
	switch src {
	case blotter.Internal:
		return "internal_positions", nil
	case blotter.Broker:
		return "broker_positions", nil
	default:
		return "", fmt.Errorf("unknown source %q", src)
	}
}

func cashTable(src blotter.Source) (string, error) {
	switch src {
	case blotter.Internal:
		return "internal_cash", nil
	case blotter.Broker:
		return "broker_cash", nil
	default:
		return "", fmt.Errorf("unknown source %q", src)
	}
}

// ReplacePositions swaps in the position snapshot set for one (source, date).
func (s *SQLite) ReplacePositions(ctx context.Context, src blotter.Source, date string, positions []blotter.PositionSnapshot) error {
	table, err := positionTable(src)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE position_date = ?", date); err != nil {
			return err
		}
		for _, p := range positions {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO "+table+" (account, symbol, position_date, net_position) VALUES (?, ?, ?, ?)",
				p.Account, p.Symbol, p.PositionDate, p.NetPosition)
			if err != nil {
				return fmt.Errorf("insert position %s/%s: %w", p.Account, p.Symbol, err)
			}
		}
		return nil
	})
}

// PositionsForDate returns the stored snapshots, ordered by (account, symbol).
func (s *SQLite) PositionsForDate(ctx context.Context, src blotter.Source, date string) ([]blotter.PositionSnapshot, error) {
	table, err := positionTable(src)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT account, symbol, position_date, net_position
		FROM `+table+`
		WHERE position_date = ?
		ORDER BY account, symbol`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []blotter.PositionSnapshot
	for rows.Next() {
		var p blotter.PositionSnapshot
		if err := rows.Scan(&p.Account, &p.Symbol, &p.PositionDate, &p.NetPosition); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ReplaceCash swaps in the cash snapshot set for one (source, date).
func (s *SQLite) ReplaceCash(ctx context.Context, src blotter.Source, date string, balances []blotter.CashSnapshot) error {
	table, err := cashTable(src)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE cash_date = ?", date); err != nil {
			return err
		}
		for _, c := range balances {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO "+table+" (account, currency, cash_date, net_cash_balance) VALUES (?, ?, ?, ?)",
				c.Account, c.Currency, c.CashDate, c.NetBalance.String())
			if err != nil {
				return fmt.Errorf("insert cash %s/%s: %w", c.Account, c.Currency, err)
			}
		}
		return nil
	})
}

// CashForDate returns the stored balances, ordered by (account, currency).
func (s *SQLite) CashForDate(ctx context.Context, src blotter.Source, date string) ([]blotter.CashSnapshot, error) {
	table, err := cashTable(src)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT account, currency, cash_date, net_cash_balance
		FROM `+table+`
		WHERE cash_date = ?
		ORDER BY account, currency`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []blotter.CashSnapshot
	for rows.Next() {
		var (
			c   blotter.CashSnapshot
			bal string
		)
		if err := rows.Scan(&c.Account, &c.Currency, &c.CashDate, &bal); err != nil {
			return nil, err
		}
		if c.NetBalance, err = decimal.NewFromString(bal); err != nil {
			return nil, fmt.Errorf("cash %s/%s balance: %w", c.Account, c.Currency, err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
