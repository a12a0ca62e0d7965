// Package pipeline drives the per-date engines: load feeds, reconcile
// trades, reconcile books, calculate PnL. Each run recomputes its outputs
// from scratch inside one atomic replace and appends one audit row, so a
// run for the same date can always be repeated safely.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/rustyeddy/tradeops/blotter"
	"github.com/rustyeddy/tradeops/config"
	"github.com/rustyeddy/tradeops/feed"
	"github.com/rustyeddy/tradeops/pkg/id"
	"github.com/rustyeddy/tradeops/pnl"
	"github.com/rustyeddy/tradeops/recon"
	"github.com/rustyeddy/tradeops/store"
)

// Pipeline names as recorded in the audit trail.
const (
	DataLoad   = "data_load"
	TradeRecon = "trade_reconciliation"
	BookRecon  = "position_cash_reconciliation"
	PnlCalc    = "pnl_calculation"
)

// Runner executes engines against one store with one configuration.
type Runner struct {
	store *store.SQLite
	cfg   *config.Config
}

func New(s *store.SQLite, cfg *config.Config) *Runner {
	return &Runner{store: s, cfg: cfg}
}

// Result summarizes one engine run.
type Result struct {
	Pipeline string
	Rows     int64
	Breaks   int64
	Duration time.Duration
}

// ReconcileTrades runs the matching engine for a date: load both trade sets,
// validate, full-outer-join on trade_id, replace the date's break set. An
// absent side is an empty set, so every surviving trade breaks as missing or
// phantom rather than the run failing.
func (r *Runner) ReconcileTrades(ctx context.Context, date string) (Result, error) {
	start := time.Now()
	res, err := r.reconcileTrades(ctx, date)
	res.Duration = time.Since(start)
	r.audit(ctx, TradeRecon, date, start, res, err)
	if err != nil {
		return res, fmt.Errorf("%s %s: %w", TradeRecon, date, err)
	}
	return res, nil
}

func (r *Runner) reconcileTrades(ctx context.Context, date string) (Result, error) {
	res := Result{Pipeline: TradeRecon}

	internal, err := r.store.TradesForDate(ctx, blotter.Internal, date)
	if err != nil {
		return res, err
	}
	broker, err := r.store.TradesForDate(ctx, blotter.Broker, date)
	if err != nil {
		return res, err
	}
	res.Rows = int64(len(internal) + len(broker))

	if err := blotter.ValidateTrades(internal); err != nil {
		return res, fmt.Errorf("internal trades: %w", err)
	}
	if err := blotter.ValidateTrades(broker); err != nil {
		return res, fmt.Errorf("broker trades: %w", err)
	}

	breaks := recon.MatchTrades(date, internal, broker, r.cfg.Tolerances(), r.cfg.Thresholds())
	res.Breaks = int64(len(breaks))

	if err := r.store.ReplaceTradeBreaks(ctx, date, breaks, r.cfg.Recon.PreserveResolved); err != nil {
		return res, err
	}
	return res, nil
}

// ReconcileBooks runs position and cash reconciliation for a date. Snapshots
// supplied by the loader are used as-is; a side without loaded snapshots has
// them derived from its trade set. Both break tables are replaced in one
// transaction.
func (r *Runner) ReconcileBooks(ctx context.Context, date string) (Result, error) {
	start := time.Now()
	res, err := r.reconcileBooks(ctx, date)
	res.Duration = time.Since(start)
	r.audit(ctx, BookRecon, date, start, res, err)
	if err != nil {
		return res, fmt.Errorf("%s %s: %w", BookRecon, date, err)
	}
	return res, nil
}

func (r *Runner) reconcileBooks(ctx context.Context, date string) (Result, error) {
	res := Result{Pipeline: BookRecon}

	var (
		positions = map[blotter.Source][]blotter.PositionSnapshot{}
		cash      = map[blotter.Source][]blotter.CashSnapshot{}
	)
	for _, src := range []blotter.Source{blotter.Internal, blotter.Broker} {
		p, c, rows, err := r.bookSide(ctx, src, date)
		if err != nil {
			return res, fmt.Errorf("%s side: %w", src, err)
		}
		positions[src], cash[src] = p, c
		res.Rows += rows
	}

	tol, th := r.cfg.Tolerances(), r.cfg.Thresholds()
	posBreaks := recon.ReconcilePositions(date, positions[blotter.Internal], positions[blotter.Broker], tol, th)
	cashBreaks := recon.ReconcileCash(date, cash[blotter.Internal], cash[blotter.Broker], tol, th)
	res.Breaks = int64(len(posBreaks) + len(cashBreaks))

	if err := r.store.ReplaceBookBreaks(ctx, date, posBreaks, cashBreaks); err != nil {
		return res, err
	}
	return res, nil
}

// bookSide fetches one side's snapshots, deriving them from its trades when
// the loader did not supply them directly.
func (r *Runner) bookSide(ctx context.Context, src blotter.Source, date string) ([]blotter.PositionSnapshot, []blotter.CashSnapshot, int64, error) {
	positions, err := r.store.PositionsForDate(ctx, src, date)
	if err != nil {
		return nil, nil, 0, err
	}
	cash, err := r.store.CashForDate(ctx, src, date)
	if err != nil {
		return nil, nil, 0, err
	}
	if len(positions) > 0 && len(cash) > 0 {
		return positions, cash, int64(len(positions) + len(cash)), nil
	}

	trades, err := r.store.TradesForDate(ctx, src, date)
	if err != nil {
		return nil, nil, 0, err
	}
	if err := blotter.ValidateTrades(trades); err != nil {
		return nil, nil, 0, err
	}
	if len(positions) == 0 {
		positions = blotter.Positions(date, trades)
	}
	if len(cash) == 0 {
		cash = blotter.Cash(date, trades)
	}
	return positions, cash, int64(len(trades)), nil
}

// CalculatePnl computes the date's realized PnL from the internal trade set
// and replaces the daily_pnl rows.
func (r *Runner) CalculatePnl(ctx context.Context, date string) (Result, error) {
	start := time.Now()
	res, err := r.calculatePnl(ctx, date)
	res.Duration = time.Since(start)
	r.audit(ctx, PnlCalc, date, start, res, err)
	if err != nil {
		return res, fmt.Errorf("%s %s: %w", PnlCalc, date, err)
	}
	return res, nil
}

func (r *Runner) calculatePnl(ctx context.Context, date string) (Result, error) {
	res := Result{Pipeline: PnlCalc}

	trades, err := r.store.TradesForDate(ctx, blotter.Internal, date)
	if err != nil {
		return res, err
	}
	res.Rows = int64(len(trades))

	if err := blotter.ValidateTrades(trades); err != nil {
		return res, fmt.Errorf("internal trades: %w", err)
	}

	records := pnl.Calculate(date, trades)
	if err := r.store.ReplacePnl(ctx, date, records); err != nil {
		return res, err
	}
	return res, nil
}

// LoadFeeds pulls the date's raw feed files into the store, replacing any
// previously loaded rows for the date. Missing files are skipped with a
// notice; the reconcilers report the absence as breaks.
func (r *Runner) LoadFeeds(ctx context.Context, date string) (Result, error) {
	start := time.Now()
	res, err := r.loadFeeds(ctx, date)
	res.Duration = time.Since(start)
	r.audit(ctx, DataLoad, date, start, res, err)
	if err != nil {
		return res, fmt.Errorf("%s %s: %w", DataLoad, date, err)
	}
	return res, nil
}

func (r *Runner) loadFeeds(ctx context.Context, date string) (Result, error) {
	res := Result{Pipeline: DataLoad}
	dir := r.cfg.Data.Dir

	load := func(kind string, fn func(path string) (int, error)) error {
		path, ok := feed.Find(dir, kind, date)
		if !ok {
			log.Printf("feed %s missing for %s, skipping", kind, date)
			return nil
		}
		n, err := fn(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", kind, err)
		}
		res.Rows += int64(n)
		return nil
	}

	trades := func(src blotter.Source) func(string) (int, error) {
		return func(path string) (int, error) {
			rows, err := feed.ReadTrades(path)
			if err != nil {
				return 0, err
			}
			return len(rows), r.store.ReplaceTrades(ctx, src, date, rows)
		}
	}
	positions := func(src blotter.Source) func(string) (int, error) {
		return func(path string) (int, error) {
			rows, err := feed.ReadPositions(path)
			if err != nil {
				return 0, err
			}
			return len(rows), r.store.ReplacePositions(ctx, src, date, rows)
		}
	}
	cash := func(src blotter.Source) func(string) (int, error) {
		return func(path string) (int, error) {
			rows, err := feed.ReadCash(path)
			if err != nil {
				return 0, err
			}
			return len(rows), r.store.ReplaceCash(ctx, src, date, rows)
		}
	}

	steps := []struct {
		kind string
		fn   func(string) (int, error)
	}{
		{feed.InternalTrades, trades(blotter.Internal)},
		{feed.BrokerTrades, trades(blotter.Broker)},
		{feed.InternalPositions, positions(blotter.Internal)},
		{feed.BrokerPositions, positions(blotter.Broker)},
		{feed.InternalCash, cash(blotter.Internal)},
		{feed.BrokerCash, cash(blotter.Broker)},
	}
	for _, s := range steps {
		if err := load(s.kind, s.fn); err != nil {
			return res, err
		}
	}
	return res, nil
}

// RunAll executes the three compute engines for a date concurrently. Their
// outputs live in disjoint tables, so they need no coordination; failures are
// independent and joined into one error.
func (r *Runner) RunAll(ctx context.Context, date string) ([]Result, error) {
	engines := []func(context.Context, string) (Result, error){
		r.ReconcileTrades,
		r.ReconcileBooks,
		r.CalculatePnl,
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []Result
		errs    []error
	)
	for _, engine := range engines {
		wg.Add(1)
		go func(run func(context.Context, string) (Result, error)) {
			defer wg.Done()
			res, err := run(ctx, date)
			mu.Lock()
			defer mu.Unlock()
			results = append(results, res)
			if err != nil {
				errs = append(errs, err)
			}
		}(engine)
	}
	wg.Wait()

	sortResults(results)
	return results, errors.Join(errs...)
}

func sortResults(results []Result) {
	order := map[string]int{TradeRecon: 0, BookRecon: 1, PnlCalc: 2, DataLoad: 3}
	sort.Slice(results, func(i, j int) bool {
		return order[results[i].Pipeline] < order[results[j].Pipeline]
	})
}

// audit appends the run's outcome to pipeline_runs. Audit failures are logged
// and swallowed so they never mask the engine's own result.
func (r *Runner) audit(ctx context.Context, name, date string, start time.Time, res Result, runErr error) {
	run := store.PipelineRun{
		RunID:         id.New(),
		RunDate:       date,
		Pipeline:      name,
		Status:        store.StatusSuccess,
		StartTime:     start,
		EndTime:       start.Add(res.Duration),
		Duration:      res.Duration,
		RowsProcessed: res.Rows,
		BreaksFound:   res.Breaks,
	}
	if runErr != nil {
		run.Status = store.StatusFailed
		run.ErrorMessage = runErr.Error()
	}
	if err := r.store.RecordRun(ctx, run); err != nil {
		log.Printf("record %s run for %s: %v", name, date, err)
	}
}
