package game

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quickdraw/clock"
)

type scheduledPress struct {
	at     uint32
	player Player
}

// fakeClock advances one millisecond at a time and fires scheduled presses
// between ticks, the way a pin interrupt lands between two instructions of
// the main loop.
type fakeClock struct {
	now     uint32
	presses []scheduledPress
	press   func(Player)
	onTick  func()
}

func (f *fakeClock) Millis() uint32 { return f.now }

func (f *fakeClock) Sleep(d time.Duration) {
	for i := uint32(0); i < clock.Ms(d); i++ {
		f.now++
		f.fire()
		if f.onTick != nil {
			f.onTick()
		}
	}
}

func (f *fakeClock) fire() {
	for len(f.presses) > 0 && clock.Reached(f.now, f.presses[0].at) {
		next := f.presses[0]
		f.presses = f.presses[1:]
		f.press(next.player)
	}
}

func (f *fakeClock) schedule(p Player, at uint32) {
	f.presses = append(f.presses, scheduledPress{at: at, player: p})
	sort.SliceStable(f.presses, func(i, j int) bool { return f.presses[i].at < f.presses[j].at })
}

type fakeLight struct {
	on      bool
	changes int
}

func (l *fakeLight) Set(on bool) {
	if on != l.on {
		l.changes++
	}
	l.on = on
}

type toneEvent struct {
	at uint32
	hz uint32 // 0 means stopped
}

type fakeBuzzer struct {
	clock  *fakeClock
	events []toneEvent
	hz     uint32
}

func (b *fakeBuzzer) Tone(hz uint32) {
	b.hz = hz
	b.events = append(b.events, toneEvent{at: b.clock.now, hz: hz})
}

func (b *fakeBuzzer) Stop() {
	if b.hz == 0 {
		return
	}
	b.hz = 0
	b.events = append(b.events, toneEvent{at: b.clock.now})
}

// tones returns the distinct frequencies started, in order.
func (b *fakeBuzzer) tones() []uint32 {
	var out []uint32
	for _, e := range b.events {
		if e.hz != 0 {
			out = append(out, e.hz)
		}
	}
	return out
}

type harness struct {
	ctl         *Controller
	clock       *fakeClock
	lights      [2]*fakeLight
	buzzer      *fakeBuzzer
	transitions []Transition
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{
		clock:  &fakeClock{},
		lights: [2]*fakeLight{{}, {}},
	}
	h.buzzer = &fakeBuzzer{clock: h.clock}

	opts = append([]Option{
		WithRand(rand.New(rand.NewSource(1))),
		WithTransitionHook(func(tr Transition) { h.transitions = append(h.transitions, tr) }),
	}, opts...)

	ctl, err := New(DefaultConfig(), Hardware{
		Lights: [2]Light{h.lights[Player1], h.lights[Player2]},
		Buzzer: h.buzzer,
		Clock:  h.clock,
	}, opts...)
	require.NoError(t, err)
	h.ctl = ctl
	h.clock.press = ctl.Press
	return h
}

// at puts the controller straight into a phase at the current time.
func (h *harness) at(s State) {
	h.ctl.mu.Lock()
	h.ctl.state = s
	h.ctl.mu.Unlock()
}

// runUntil drives the main loop until the clock reaches t. A step that is
// mid-sequence runs to its own end first.
func (h *harness) runUntil(t uint32) {
	for !clock.Reached(h.clock.now, t) {
		h.ctl.Step()
		h.ctl.drain()
		h.clock.Sleep(h.ctl.cfg.Tick)
	}
}

// runUntilPhase drives the main loop until the phase is p or limit passes.
func (h *harness) runUntilPhase(p Phase, limit uint32) bool {
	for !clock.Reached(h.clock.now, limit) {
		if h.ctl.Phase() == p {
			return true
		}
		h.ctl.Step()
		h.ctl.drain()
		h.clock.Sleep(h.ctl.cfg.Tick)
	}
	return h.ctl.Phase() == p
}

func (h *harness) phases() []Phase {
	var out []Phase
	for _, tr := range h.transitions {
		out = append(out, tr.To)
	}
	return out
}
