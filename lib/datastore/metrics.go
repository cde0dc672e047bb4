package datastore

import (
	"fmt"

	"github.com/VictoriaMetrics/metrics"
)

// countOp increments the per-operation counter for a database. Counters are
// created lazily so unused databases never appear in the export.
func countOp(op, db string) {
	metrics.GetOrCreateCounter(
		fmt.Sprintf(`clixon_datastore_ops_total{op=%q,db=%q}`, op, db),
	).Inc()
}
