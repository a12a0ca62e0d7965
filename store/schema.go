package store

// Monetary columns are stored as TEXT and decoded to decimals; REAL would
// reintroduce the float drift the engines exist to avoid.
const Schema = `
CREATE TABLE IF NOT EXISTS internal_trades (
	trade_id TEXT NOT NULL,
	trade_date TEXT NOT NULL,
	settlement_date TEXT,
	symbol TEXT NOT NULL,
	account TEXT NOT NULL,
	strategy TEXT NOT NULL,
	venue TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price TEXT NOT NULL,
	fees TEXT NOT NULL,
	currency TEXT NOT NULL,
	principal TEXT NOT NULL,
	PRIMARY KEY (trade_date, trade_id)
);

CREATE TABLE IF NOT EXISTS broker_trades (
	trade_id TEXT NOT NULL,
	trade_date TEXT NOT NULL,
	settlement_date TEXT,
	symbol TEXT NOT NULL,
	account TEXT NOT NULL,
	strategy TEXT NOT NULL,
	venue TEXT NOT NULL,
	side TEXT NOT NULL,
	quantity INTEGER NOT NULL,
	price TEXT NOT NULL,
	fees TEXT NOT NULL,
	currency TEXT NOT NULL,
	principal TEXT NOT NULL,
	PRIMARY KEY (trade_date, trade_id)
);

CREATE TABLE IF NOT EXISTS internal_positions (
	account TEXT NOT NULL,
	symbol TEXT NOT NULL,
	position_date TEXT NOT NULL,
	net_position INTEGER NOT NULL,
	PRIMARY KEY (position_date, account, symbol)
);

CREATE TABLE IF NOT EXISTS broker_positions (
	account TEXT NOT NULL,
	symbol TEXT NOT NULL,
	position_date TEXT NOT NULL,
	net_position INTEGER NOT NULL,
	PRIMARY KEY (position_date, account, symbol)
);

CREATE TABLE IF NOT EXISTS internal_cash (
	account TEXT NOT NULL,
	currency TEXT NOT NULL,
	cash_date TEXT NOT NULL,
	net_cash_balance TEXT NOT NULL,
	PRIMARY KEY (cash_date, account, currency)
);

CREATE TABLE IF NOT EXISTS broker_cash (
	account TEXT NOT NULL,
	currency TEXT NOT NULL,
	cash_date TEXT NOT NULL,
	net_cash_balance TEXT NOT NULL,
	PRIMARY KEY (cash_date, account, currency)
);

CREATE TABLE IF NOT EXISTS recon_trades (
	recon_date TEXT NOT NULL,
	trade_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	account TEXT NOT NULL,
	break_type TEXT NOT NULL,
	severity TEXT NOT NULL,
	internal_value TEXT,
	broker_value TEXT,
	notional_impact TEXT NOT NULL,
	resolved INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_recon_trades_date ON recon_trades(recon_date);

CREATE TABLE IF NOT EXISTS recon_positions (
	recon_date TEXT NOT NULL,
	account TEXT NOT NULL,
	symbol TEXT NOT NULL,
	break_type TEXT NOT NULL,
	severity TEXT NOT NULL,
	internal_value INTEGER NOT NULL,
	broker_value INTEGER NOT NULL,
	difference INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recon_positions_date ON recon_positions(recon_date);

CREATE TABLE IF NOT EXISTS recon_cash (
	recon_date TEXT NOT NULL,
	account TEXT NOT NULL,
	currency TEXT NOT NULL,
	break_type TEXT NOT NULL,
	severity TEXT NOT NULL,
	internal_value TEXT NOT NULL,
	broker_value TEXT NOT NULL,
	difference TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recon_cash_date ON recon_cash(recon_date);

CREATE TABLE IF NOT EXISTS daily_pnl (
	pnl_date TEXT NOT NULL,
	strategy TEXT NOT NULL,
	symbol TEXT NOT NULL,
	account TEXT NOT NULL,
	trade_count INTEGER NOT NULL,
	realized_pnl TEXT NOT NULL,
	fees_total TEXT NOT NULL,
	net_pnl TEXT NOT NULL,
	PRIMARY KEY (pnl_date, strategy, symbol, account)
);

CREATE TABLE IF NOT EXISTS pipeline_runs (
	run_id TEXT PRIMARY KEY,
	run_date TEXT NOT NULL,
	pipeline_name TEXT NOT NULL,
	status TEXT NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	duration_seconds REAL NOT NULL,
	rows_processed INTEGER NOT NULL DEFAULT 0,
	breaks_found INTEGER NOT NULL DEFAULT 0,
	error_message TEXT
);

CREATE INDEX IF NOT EXISTS idx_pipeline_runs_date ON pipeline_runs(run_date);
`
