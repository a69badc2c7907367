/*
 * Quickdraw for Raspberry Pi Pico
 * Go version
 *
 * @authors     smittytone
 * @copyright   2023, Tony Smith
 * @licence     MIT
 *
 */

// Package game referees a two-player quickdraw round.
//
// A Controller is driven from two sides. The main loop calls Step (or Run),
// which performs the lights and tones for the current phase and the timed
// transitions. Each button edge calls Press, which may preempt the main loop
// at any instruction and immediately applies the press rule for the current
// phase. Both sides only touch shared state while holding the injected
// sync.Locker; on a microcontroller that lock must mask interrupts rather than
// block.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"quickdraw/clock"
)

var ErrMissingHardware = errors.New("game hardware is incomplete")

// Transitions raised between two drains of the main loop are buffered for the
// hook. Past this many the phase still changes but the hook is not told.
const transitionBacklog = 16

var players = [2]Player{Player1, Player2}

type Controller struct {
	cfg Config
	hw  Hardware

	mu    sync.Locker
	state State

	rng          *rand.Rand
	transitions  chan Transition
	onTransition func(Transition)

	// cfg durations in clock units
	debounce   uint32
	windowMin  uint32
	windowSpan uint32
	hold       uint32
}

type Option func(*Controller)

// WithLocker replaces the default sync.Mutex. Firmware passes a critical
// section that disables interrupts.
func WithLocker(l sync.Locker) Option {
	return func(c *Controller) { c.mu = l }
}

// WithRand sets the source of reaction deadlines.
func WithRand(r *rand.Rand) Option {
	return func(c *Controller) { c.rng = r }
}

// WithTransitionHook is called from the main loop once per phase change.
func WithTransitionHook(fn func(Transition)) Option {
	return func(c *Controller) { c.onTransition = fn }
}

// New returns a controller in the Startup phase.
func New(cfg Config, hw Hardware, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !hw.complete() {
		return nil, ErrMissingHardware
	}

	c := &Controller{
		cfg:         cfg,
		hw:          hw,
		mu:          &sync.Mutex{},
		state:       initialState(hw.Clock.Millis()),
		transitions: make(chan Transition, transitionBacklog),
		debounce:    clock.Ms(cfg.Debounce),
		windowMin:   clock.Ms(cfg.ReactionMin),
		windowSpan:  clock.Ms(cfg.ReactionMax) - clock.Ms(cfg.ReactionMin),
		hold:        clock.Ms(cfg.ResultHold),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.windowSpan == 0 {
		return nil, fmt.Errorf("%w: reaction window is under 1ms wide", ErrInvalidConfig)
	}
	return c, nil
}

// State returns a consistent copy of the shared state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Phase
}

// Press is the edge handler for p's button, called on every level change.
// It never blocks beyond the critical section.
func (c *Controller) Press(p Player) {
	now := c.hw.Clock.Millis()

	c.mu.Lock()
	defer c.mu.Unlock()
	from := c.state.Phase
	if c.state.press(p, now, c.debounce) {
		c.record(from, c.state.Phase, now)
	}
}

// Run steps the game until ctx is cancelled, then silences the buzzer and
// clears the indicators.
func (c *Controller) Run(ctx context.Context) error {
	defer c.quiet()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		c.Step()
		c.drain()
		c.hw.Clock.Sleep(c.cfg.Tick)
	}
}

// Step runs one pass of the main loop: the entry action or timed check for
// the current phase.
func (c *Controller) Step() {
	if enter := phaseEntries[c.Phase()]; enter != nil {
		enter(c)
	}
}

var phaseEntries = [phaseCount]func(*Controller){
	Startup:     (*Controller).attract,
	PrePlay:     (*Controller).countdown,
	Playing:     (*Controller).awaitSignal,
	Scoring:     (*Controller).announce,
	PostScoring: (*Controller).holdResult,
}

// attract walks each player's light and tone on, then off, for the
// configured number of passes.
func (c *Controller) attract() {
	for i := 0; i < c.cfg.AttractPasses; i++ {
		for _, on := range [2]bool{true, false} {
			for _, p := range players {
				c.hw.Lights[p].Set(on)
				c.hw.Buzzer.Tone(c.cfg.Tones.For(p))
				if !c.waitUnless(c.cfg.FlashStep, Startup) {
					c.hw.Buzzer.Stop()
					return
				}
			}
		}
	}
	c.hw.Buzzer.Stop()
	c.advance(Startup, Ready)
}

// countdown flashes both lights once with the start tone, then arms the
// reaction deadline.
func (c *Controller) countdown() {
	for _, on := range [2]bool{true, false} {
		c.setLights(on)
		c.hw.Buzzer.Tone(c.cfg.Tones.Start)
		if !c.waitUnless(c.cfg.FlashStep, PrePlay) {
			c.hw.Buzzer.Stop()
			return
		}
	}
	c.hw.Buzzer.Stop()

	offset := c.windowMin + uint32(c.rng.Int63n(int64(c.windowSpan)))
	now := c.hw.Clock.Millis()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != PrePlay || !c.state.transition(Playing, now) {
		return
	}
	c.state.Deadline = now + offset
	c.record(PrePlay, Playing, now)
}

// awaitSignal gives the go signal once the deadline passes.
func (c *Controller) awaitSignal() {
	now := c.hw.Clock.Millis()

	c.mu.Lock()
	fire := c.state.Phase == Playing && clock.Reached(now, c.state.Deadline) && c.state.transition(Reacting, now)
	if fire {
		c.record(Playing, Reacting, now)
	}
	c.mu.Unlock()

	if fire {
		c.setLights(true)
	}
}

// announce shows the winner and plays either the false-start pattern or the
// winner's tone.
func (c *Controller) announce() {
	s := c.State()
	if s.Phase != Scoring || s.Winner == None {
		return
	}

	c.hw.Lights[s.Winner].Set(true)
	c.hw.Lights[s.Winner.Other()].Set(false)

	if s.FalseStart {
		for i := 0; i < c.cfg.ErrorRepeats; i++ {
			c.hw.Buzzer.Tone(c.cfg.Tones.Error)
			if !c.waitUnless(c.cfg.ErrorBeep, Scoring) {
				c.hw.Buzzer.Stop()
				return
			}
			c.hw.Buzzer.Stop()
			if !c.waitUnless(c.cfg.ErrorGap, Scoring) {
				return
			}
		}
	} else {
		c.hw.Buzzer.Tone(c.cfg.Tones.For(s.Winner))
		completed := c.waitUnless(c.cfg.WinnerTone, Scoring)
		c.hw.Buzzer.Stop()
		if !completed {
			return
		}
	}

	c.advance(Scoring, PostScoring)
}

// holdResult returns to Ready once the result has been on show long enough.
func (c *Controller) holdResult() {
	now := c.hw.Clock.Millis()

	c.mu.Lock()
	done := c.state.Phase == PostScoring &&
		clock.Elapsed(now, c.state.LastTransitionAt) >= c.hold &&
		c.state.transition(Ready, now)
	if done {
		c.record(PostScoring, Ready, now)
	}
	c.mu.Unlock()

	if done {
		c.setLights(false)
	}
}

// waitUnless blocks for d unless the phase moves away from watch first. It
// reports whether the whole duration elapsed.
func (c *Controller) waitUnless(d time.Duration, watch Phase) bool {
	start := c.hw.Clock.Millis()
	ms := clock.Ms(d)
	for c.Phase() == watch {
		if clock.Elapsed(c.hw.Clock.Millis(), start) >= ms {
			return true
		}
		c.hw.Clock.Sleep(c.cfg.Tick)
	}
	return false
}

// advance moves from -> to unless the button handler got there first.
func (c *Controller) advance(from, to Phase) bool {
	now := c.hw.Clock.Millis()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Phase != from || !c.state.transition(to, now) {
		return false
	}
	c.record(from, to, now)
	return true
}

// record queues a transition for the hook. Must hold c.mu.
func (c *Controller) record(from, to Phase, at uint32) {
	select {
	case c.transitions <- Transition{From: from, To: to, At: at}:
	default:
	}
}

// drain hands queued transitions to the hook on the main loop.
func (c *Controller) drain() {
	for {
		select {
		case t := <-c.transitions:
			if c.onTransition != nil {
				c.onTransition(t)
			}
		default:
			return
		}
	}
}

func (c *Controller) setLights(on bool) {
	for _, p := range players {
		c.hw.Lights[p].Set(on)
	}
}

func (c *Controller) quiet() {
	c.hw.Buzzer.Stop()
	c.setLights(false)
	c.drain()
}
