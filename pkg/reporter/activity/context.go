// Package activity holds the recompute steps the reporter runs on every
// cron tick. Each activity performs a full, idempotent recompute: rows are
// stamped with a version and the report tables replace superseded versions
// on merge.
package activity

import (
	"time"

	"go.uber.org/zap"

	"github.com/Rohan-1103/covidx/pkg/db"
)

// Context carries the dependencies reporter activities need.
type Context struct {
	Logger    *zap.Logger
	CovidDB   db.CovidStore
	ReportsDB db.ReportsStore

	// Workers bounds the per-location fan-out of the rolling recompute.
	Workers int
}

// version stamps one recompute run. Wall-clock nanos are strictly
// increasing across runs on one host, which is all ReplacingMergeTree needs.
func version() uint64 {
	return uint64(time.Now().UnixNano())
}
