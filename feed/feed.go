// Package feed reads the raw per-date blotter files delivered by the
// upstream data source: six CSVs per business date (internal/broker for
// trades, positions and cash), optionally gzip- or xz-compressed.
package feed

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// The drop-zone layout mirrors the upstream delivery:
//
//	<dir>/internal_trades/internal_trades_<date>.csv[.gz|.xz]
//	<dir>/broker_trades/broker_trades_<date>.csv[.gz|.xz]
//	<dir>/positions/{internal,broker}_positions_<date>.csv[.gz|.xz]
//	<dir>/cash/{internal,broker}_cash_<date>.csv[.gz|.xz]
const (
	InternalTrades    = "internal_trades"
	BrokerTrades      = "broker_trades"
	InternalPositions = "internal_positions"
	BrokerPositions   = "broker_positions"
	InternalCash      = "internal_cash"
	BrokerCash        = "broker_cash"
)

var subdirs = map[string]string{
	InternalTrades:    "internal_trades",
	BrokerTrades:      "broker_trades",
	InternalPositions: "positions",
	BrokerPositions:   "positions",
	InternalCash:      "cash",
	BrokerCash:        "cash",
}

// Find locates the feed file for one (kind, date), trying the plain and
// compressed extensions in order. A missing feed is not an error: the engines
// treat an absent side as an empty set.
func Find(dir, kind, date string) (string, bool) {
	sub, ok := subdirs[kind]
	if !ok {
		return "", false
	}
	base := filepath.Join(dir, sub, fmt.Sprintf("%s_%s.csv", kind, date))
	for _, path := range []string{base, base + ".gz", base + ".xz"} {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// open returns a reader for a feed file, decompressing by extension.
func open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	switch filepath.Ext(path) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip %s: %w", path, err)
		}
		return &wrapped{Reader: zr, close: func() error {
			zr.Close()
			return f.Close()
		}}, nil
	case ".xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz %s: %w", path, err)
		}
		return &wrapped{Reader: xr, close: f.Close}, nil
	default:
		return f, nil
	}
}

type wrapped struct {
	io.Reader
	close func() error
}

func (w *wrapped) Close() error { return w.close() }
