/*
 * Quickdraw for Raspberry Pi Pico
 * Go version
 *
 * @authors     smittytone
 * @copyright   2023, Tony Smith
 * @licence     MIT
 *
 */

// Package clock provides the millisecond counter the referee runs on.
//
// Timestamps are 32-bit and wrap after roughly 49.7 days of uptime, so they
// must only ever be compared through the helpers in this package, which work
// on differences rather than absolute values.
package clock

import "time"

// Monotonic counts milliseconds since it was created.
type Monotonic struct {
	boot time.Time
}

// New starts a clock at zero.
func New() *Monotonic {
	return &Monotonic{boot: time.Now()}
}

// Millis returns the milliseconds elapsed since boot, wrapped to 32 bits.
func (m *Monotonic) Millis() uint32 {
	return uint32(time.Since(m.boot) / time.Millisecond)
}

// Sleep blocks the caller for d.
func (m *Monotonic) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Ms converts d to whole milliseconds, saturating at the 32-bit limit.
func Ms(d time.Duration) uint32 {
	ms := d / time.Millisecond
	if ms < 0 {
		return 0
	}
	if ms > 0xFFFFFFFF {
		return 0xFFFFFFFF
	}
	return uint32(ms)
}

// Elapsed returns the time from since to now across a wrap.
func Elapsed(now, since uint32) uint32 {
	return now - since
}

// Reached reports whether now is at or past deadline. Both values must be
// within half the counter range of each other.
func Reached(now, deadline uint32) bool {
	return int32(now-deadline) >= 0
}

// Distance returns |a - b| measured the short way round the counter.
func Distance(a, b uint32) uint32 {
	d, e := a-b, b-a
	if e < d {
		return e
	}
	return d
}
