// Package persistence is the document-store boundary spec §1 treats as an
// external collaborator specified only at interface level: it persists
// analyze_security snapshots and scan_trades results so a caller can
// replay a prior result without re-running the core. SQLiteStore is the
// one reference implementation shipped; production deployments are free
// to satisfy Store with anything else (Postgres, a managed KV store, …).
package persistence

import (
	"context"
	"time"

	"github.com/aristath/chartwatch/internal/modules/analysis"
	"github.com/aristath/chartwatch/internal/modules/fanout"
)

// Store persists analyze_security snapshots and scan_trades results,
// keyed by caller-chosen strings (the server layer derives these from the
// request — symbol+period+profile for analyses, a job/run ID for scans).
type Store interface {
	SaveAnalysis(ctx context.Context, key string, snapshot analysis.Snapshot, ttl time.Duration) error
	GetAnalysis(ctx context.Context, key string) (analysis.Snapshot, bool, error)
	SaveScan(ctx context.Context, key string, result fanout.ScanResult, ttl time.Duration) error
	GetScan(ctx context.Context, key string) (fanout.ScanResult, bool, error)
}
