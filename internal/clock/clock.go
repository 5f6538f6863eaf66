// Package clock provides the process-local monotonic millisecond clock used
// for the scroll and blur timestamps kept in activestate.
//
// Those timestamps are plain integers, so they are taken from the monotonic
// reading of a process-start epoch rather than from wall-clock time (NTP
// steps, daylight-saving jumps).
package clock

import "time"

var start = time.Now()

// NowMillis returns the number of milliseconds elapsed since this process
// started. It is monotone for the lifetime of the process.
func NowMillis() uint64 {
	return uint64(time.Since(start).Milliseconds())
}
