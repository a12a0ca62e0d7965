package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/tradeops/recon"
)

// ReplaceTradeBreaks swaps in the full trade break set for a date. With
// preserveResolved, breaks whose identity (trade_id, break_type) was marked
// resolved by an analyst before the re-run come back still resolved; without
// it the replace resets every break to unresolved, which is the upstream
// system's behavior.
func (s *SQLite) ReplaceTradeBreaks(ctx context.Context, date string, breaks []recon.TradeBreak, preserveResolved bool) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		resolved := make(map[[2]string]bool)
		if preserveResolved {
			rows, err := tx.QueryContext(ctx,
				"SELECT trade_id, break_type FROM recon_trades WHERE recon_date = ? AND resolved = 1", date)
			if err != nil {
				return err
			}
			for rows.Next() {
				var id, bt string
				if err := rows.Scan(&id, &bt); err != nil {
					rows.Close()
					return err
				}
				resolved[[2]string{id, bt}] = true
			}
			if err := rows.Close(); err != nil {
				return err
			}
			if err := rows.Err(); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM recon_trades WHERE recon_date = ?", date); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO recon_trades
			(recon_date, trade_id, symbol, account, break_type, severity, internal_value, broker_value, notional_impact, resolved)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, b := range breaks {
			keep := b.Resolved || resolved[[2]string{b.TradeID, string(b.Type)}]
			_, err := stmt.ExecContext(ctx,
				b.ReconDate, b.TradeID, b.Symbol, b.Account,
				string(b.Type), string(b.Severity),
				nullDecStr(b.InternalValue), nullDecStr(b.BrokerValue),
				b.NotionalImpact.String(), keep,
			)
			if err != nil {
				return fmt.Errorf("insert break %s/%s: %w", b.TradeID, b.Type, err)
			}
		}
		return nil
	})
}

// TradeBreaksForDate returns the date's breaks ordered by (trade_id, break_type).
func (s *SQLite) TradeBreaksForDate(ctx context.Context, date string) ([]recon.TradeBreak, error) {
	return s.queryTradeBreaks(ctx, `
		SELECT recon_date, trade_id, symbol, account, break_type, severity, internal_value, broker_value, notional_impact, resolved
		FROM recon_trades
		WHERE recon_date = ?
		ORDER BY trade_id, break_type`, date)
}

// TopTradeBreaks returns the date's largest HIGH/CRITICAL breaks by notional
// impact, for triage. SQLite compares the TEXT-encoded impact
// lexicographically, so ordering happens here after decoding.
func (s *SQLite) TopTradeBreaks(ctx context.Context, date string, n int) ([]recon.TradeBreak, error) {
	breaks, err := s.queryTradeBreaks(ctx, `
		SELECT recon_date, trade_id, symbol, account, break_type, severity, internal_value, broker_value, notional_impact, resolved
		FROM recon_trades
		WHERE recon_date = ? AND severity IN ('CRITICAL', 'HIGH')
		ORDER BY trade_id, break_type`, date)
	if err != nil {
		return nil, err
	}
	sortByImpactDesc(breaks)
	if len(breaks) > n {
		breaks = breaks[:n]
	}
	return breaks, nil
}

func (s *SQLite) queryTradeBreaks(ctx context.Context, query string, args ...any) ([]recon.TradeBreak, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []recon.TradeBreak
	for rows.Next() {
		var (
			b        recon.TradeBreak
			btype    string
			severity string
			internal sql.NullString
			broker   sql.NullString
			impact   string
		)
		if err := rows.Scan(
			&b.ReconDate, &b.TradeID, &b.Symbol, &b.Account,
			&btype, &severity, &internal, &broker, &impact, &b.Resolved,
		); err != nil {
			return nil, err
		}
		b.Type = recon.BreakType(btype)
		b.Severity = recon.Severity(severity)
		if b.InternalValue, err = scanNullDec(internal); err != nil {
			return nil, fmt.Errorf("break %s internal_value: %w", b.TradeID, err)
		}
		if b.BrokerValue, err = scanNullDec(broker); err != nil {
			return nil, fmt.Errorf("break %s broker_value: %w", b.TradeID, err)
		}
		if b.NotionalImpact, err = decimal.NewFromString(impact); err != nil {
			return nil, fmt.Errorf("break %s notional_impact: %w", b.TradeID, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ReplaceBookBreaks swaps in both the position and cash break sets for a date
// in one transaction; the book reconciliation engine owns both tables and its
// replace must be all-or-nothing.
func (s *SQLite) ReplaceBookBreaks(ctx context.Context, date string, positions []recon.PositionBreak, cash []recon.CashBreak) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM recon_positions WHERE recon_date = ?", date); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM recon_cash WHERE recon_date = ?", date); err != nil {
			return err
		}

		for _, b := range positions {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO recon_positions
				(recon_date, account, symbol, break_type, severity, internal_value, broker_value, difference)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				b.ReconDate, b.Account, b.Symbol, string(b.Type), string(b.Severity),
				b.Internal, b.Broker, b.Difference)
			if err != nil {
				return fmt.Errorf("insert position break %s/%s: %w", b.Account, b.Symbol, err)
			}
		}
		for _, b := range cash {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO recon_cash
				(recon_date, account, currency, break_type, severity, internal_value, broker_value, difference)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				b.ReconDate, b.Account, b.Currency, string(b.Type), string(b.Severity),
				b.Internal.String(), b.Broker.String(), b.Difference.String())
			if err != nil {
				return fmt.Errorf("insert cash break %s/%s: %w", b.Account, b.Currency, err)
			}
		}
		return nil
	})
}

// PositionBreaksForDate returns the date's position breaks ordered by (account, symbol).
func (s *SQLite) PositionBreaksForDate(ctx context.Context, date string) ([]recon.PositionBreak, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recon_date, account, symbol, break_type, severity, internal_value, broker_value, difference
		FROM recon_positions
		WHERE recon_date = ?
		ORDER BY account, symbol`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []recon.PositionBreak
	for rows.Next() {
		var (
			b        recon.PositionBreak
			btype    string
			severity string
		)
		if err := rows.Scan(&b.ReconDate, &b.Account, &b.Symbol, &btype, &severity, &b.Internal, &b.Broker, &b.Difference); err != nil {
			return nil, err
		}
		b.Type = recon.BreakType(btype)
		b.Severity = recon.Severity(severity)
		out = append(out, b)
	}
	return out, rows.Err()
}

// CashBreaksForDate returns the date's cash breaks ordered by (account, currency).
func (s *SQLite) CashBreaksForDate(ctx context.Context, date string) ([]recon.CashBreak, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recon_date, account, currency, break_type, severity, internal_value, broker_value, difference
		FROM recon_cash
		WHERE recon_date = ?
		ORDER BY account, currency`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []recon.CashBreak
	for rows.Next() {
		var (
			b        recon.CashBreak
			btype    string
			severity string
			internal string
			broker   string
			diff     string
		)
		if err := rows.Scan(&b.ReconDate, &b.Account, &b.Currency, &btype, &severity, &internal, &broker, &diff); err != nil {
			return nil, err
		}
		b.Type = recon.BreakType(btype)
		b.Severity = recon.Severity(severity)
		if b.Internal, err = decimal.NewFromString(internal); err != nil {
			return nil, err
		}
		if b.Broker, err = decimal.NewFromString(broker); err != nil {
			return nil, err
		}
		if b.Difference, err = decimal.NewFromString(diff); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func nullDecStr(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}

func scanNullDec(ns sql.NullString) (decimal.NullDecimal, error) {
	if !ns.Valid {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(ns.String)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func sortByImpactDesc(breaks []recon.TradeBreak) {
	sort.SliceStable(breaks, func(i, j int) bool {
		return breaks[i].NotionalImpact.GreaterThan(breaks[j].NotionalImpact)
	})
}
