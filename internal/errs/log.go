package errs

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"
)

// logLimiters bounds structured error logs to 5 per 60s per kind. Suppressed
// occurrences still emit a one-line trace so operators can see that
// something is being rate-limited.
var (
	limitersMu sync.Mutex
	limiters   = make(map[Kind]*rate.Limiter)
)

const (
	logBurst = 5
	logRate  = rate.Limit(5.0 / 60.0) // 5 tokens per 60s window
)

func limiterFor(k Kind) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()
	l, ok := limiters[k]
	if !ok {
		l = rate.NewLimiter(logRate, logBurst)
		limiters[k] = l
	}
	return l
}

// Log emits a structured slog.Error record for err, rate-limited to 5 per 60s
// per Kind. msg and attrs behave like slog.Error's arguments.
func Log(msg string, err error, attrs ...any) {
	kind := KindOf(err)
	l := limiterFor(kind)
	if !l.Allow() {
		slog.Warn("error log suppressed (rate limit)", "kind", kind)
		return
	}
	args := append([]any{"err", err, "kind", kind}, attrs...)
	slog.Error(msg, args...)
	if bt := Backtrace(err); bt != "" && slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug("backtrace", "trace", bt)
	}
}
