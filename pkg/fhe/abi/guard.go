package abi

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/coinbase/cb-fhe-go/pkg/fhe/logging"
	"github.com/coinbase/cb-fhe-go/pkg/fhe/metrics"
)

var (
	logger   atomic.Pointer[logging.Logger]
	recorder atomic.Pointer[metrics.Registry]
)

func init() {
	SetLogger(logging.Discard())
	SetMetrics(metrics.DefaultRegistry())
}

// SetLogger routes boundary log records, chiefly recovered panics, to l.
func SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Discard()
	}
	logger.Store(&l)
}

// SetMetrics selects the registry boundary calls are recorded into.
func SetMetrics(r *metrics.Registry) {
	if r == nil {
		r = metrics.DefaultRegistry()
	}
	recorder.Store(r)
}

// guard is the first deferred call of every flat operation. It converts a
// panic into StatusInternal and records the call.
func guard(op string, start time.Time, st *Status) {
	m := recorder.Load()
	if r := recover(); r != nil {
		*st = StatusInternal
		setLastError(fmt.Sprintf("%s: internal error: %v", op, r))
		m.RecordPanic()
		(*logger.Load()).Error(context.Background(), "panic recovered at boundary",
			"op", op, "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
	}
	m.RecordCall(op, st.String(), time.Since(start))
}
