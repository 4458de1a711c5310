// Package fanout implements the concurrent, multi-symbol operations of
// spec §4.7: scanner, compare, screen, portfolio risk, and morning brief.
// Every operation here is a thin composition over analysis.Analyzer,
// dispatched across a bounded worker pool with per-symbol error capture —
// the per-symbol core itself stays strictly sequential (spec §5).
package fanout

import (
	"context"
	"errors"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the fan-out worker-pool size spec §4.7/§5 name as
// the reference default.
const DefaultConcurrency = 10

// SymbolError records a single symbol's failure within a fan-out
// operation. Fan-out never aborts on a per-symbol failure (spec §4.7's
// "Concurrency discipline", §8's partial-failure invariant); every failure
// becomes one of these instead of propagating out.
type SymbolError struct {
	Symbol string
	Err    error
}

func (e SymbolError) Error() string { return e.Symbol + ": " + e.Err.Error() }

// symbolErrorWire is SymbolError's persisted shape: Err is an interface,
// so it's flattened to its message before msgpack encoding and rebuilt
// as a plain error on the way back (scan results are replayed for
// display, never re-compared by error identity).
type symbolErrorWire struct {
	Symbol string
	Err    string
}

func (e SymbolError) MarshalMsgpack() ([]byte, error) {
	msg := ""
	if e.Err != nil {
		msg = e.Err.Error()
	}
	return msgpack.Marshal(symbolErrorWire{Symbol: e.Symbol, Err: msg})
}

func (e *SymbolError) UnmarshalMsgpack(data []byte) error {
	var wire symbolErrorWire
	if err := msgpack.Unmarshal(data, &wire); err != nil {
		return err
	}
	e.Symbol = wire.Symbol
	if wire.Err != "" {
		e.Err = errors.New(wire.Err)
	}
	return nil
}

// forEachSymbol runs work for every symbol with bounded concurrency,
// collecting successes and per-symbol failures separately. It never
// returns an error itself — a failing symbol is captured, not raised.
func forEachSymbol[T any](ctx context.Context, symbols []string, concurrency int, work func(ctx context.Context, symbol string) (T, error)) ([]T, []SymbolError) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	type outcome struct {
		value T
		err   error
	}
	outcomes := make([]outcome, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, symbol := range symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			v, err := work(gctx, symbol)
			outcomes[i] = outcome{value: v, err: err}
			return nil // never propagate: a per-symbol failure must not cancel siblings
		})
	}
	_ = g.Wait() // work() never returns a group error; only context cancellation could, and that surfaces via gctx inside work itself

	results := make([]T, 0, len(symbols))
	var errs []SymbolError
	for i, symbol := range symbols {
		if outcomes[i].err != nil {
			errs = append(errs, SymbolError{Symbol: symbol, Err: outcomes[i].err})
			continue
		}
		results = append(results, outcomes[i].value)
	}
	return results, errs
}
