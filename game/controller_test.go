package game

import (
	"context"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickdraw/clock"
)

func TestNewValidates(t *testing.T) {
	hw := Hardware{
		Lights: [2]Light{&fakeLight{}, &fakeLight{}},
		Buzzer: &fakeBuzzer{clock: &fakeClock{}},
		Clock:  &fakeClock{},
	}

	cfg := DefaultConfig()
	cfg.Debounce = 0
	_, err := New(cfg, hw)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.ReactionMax = cfg.ReactionMin
	_, err = New(cfg, hw)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.ReactionMax = cfg.ReactionMin + 500*time.Microsecond
	_, err = New(cfg, hw)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	cfg = DefaultConfig()
	cfg.Tones.Error = 0
	_, err = New(cfg, hw)
	assert.ErrorIs(t, err, ErrInvalidConfig)

	missing := hw
	missing.Buzzer = nil
	_, err = New(DefaultConfig(), missing)
	assert.ErrorIs(t, err, ErrMissingHardware)

	ctl, err := New(DefaultConfig(), hw)
	require.NoError(t, err)
	s := ctl.State()
	assert.Equal(t, Startup, s.Phase)
	assert.Equal(t, None, s.Winner)
	assert.Equal(t, [2]uint32{}, s.PressedAt)
}

func TestStartupPlaysAttractSequence(t *testing.T) {
	h := newHarness(t)

	h.ctl.Step()
	h.ctl.drain()

	assert.Equal(t, Ready, h.ctl.Phase())
	assert.Equal(t, uint32(1600), h.clock.now)
	assert.Equal(t, []uint32{494, 523, 494, 523, 494, 523, 494, 523}, h.buzzer.tones())
	assert.Zero(t, h.buzzer.hz)
	for _, l := range h.lights {
		assert.False(t, l.on)
		assert.Equal(t, 4, l.changes)
	}
	assert.Equal(t, []Transition{{From: Startup, To: Ready, At: 1600}}, h.transitions)
}

func TestJointPressFromReadyStartsRound(t *testing.T) {
	h := newHarness(t)
	h.at(idleState(Ready, 0))
	h.clock.schedule(Player1, 1000)
	h.clock.schedule(Player2, 1050)

	require.True(t, h.runUntilPhase(PrePlay, 2000))
	s := h.ctl.State()
	assert.Equal(t, uint32(1050), s.LastTransitionAt)
	assert.Equal(t, [2]uint32{1000, 1050}, s.PressedAt)
}

func TestLonePressLeavesReady(t *testing.T) {
	h := newHarness(t)
	h.at(idleState(Ready, 0))
	h.clock.schedule(Player1, 1000)

	h.runUntil(2000)

	s := h.ctl.State()
	assert.Equal(t, Ready, s.Phase)
	assert.Equal(t, uint32(1000), s.PressedAt[Player1])
	assert.Empty(t, h.transitions)
}

func TestCountdownArmsDeadlineInsideWindow(t *testing.T) {
	for seed := int64(1); seed <= 50; seed++ {
		h := newHarness(t, WithRand(rand.New(rand.NewSource(seed))))
		h.at(State{Phase: PrePlay, Winner: None})

		h.ctl.Step()

		s := h.ctl.State()
		require.Equal(t, Playing, s.Phase)
		require.Equal(t, uint32(400), s.LastTransitionAt)
		offset := s.Deadline - s.LastTransitionAt
		assert.GreaterOrEqual(t, offset, uint32(5000), "seed %d", seed)
		assert.Less(t, offset, uint32(7000), "seed %d", seed)
	}
}

func TestCountdownFlashesOnce(t *testing.T) {
	h := newHarness(t)
	h.at(State{Phase: PrePlay, Winner: None})

	h.ctl.Step()

	assert.Equal(t, []toneEvent{{at: 0, hz: 440}, {at: 200, hz: 440}, {at: 400}}, h.buzzer.events)
	for _, l := range h.lights {
		assert.False(t, l.on)
		assert.Equal(t, 2, l.changes)
	}
}

func TestGoSignalFiresAtDeadline(t *testing.T) {
	h := newHarness(t)
	h.at(State{Phase: Playing, Winner: None, Deadline: 6000})

	require.True(t, h.runUntilPhase(Reacting, 10000))
	assert.Equal(t, uint32(6000), h.ctl.State().LastTransitionAt)
	for _, l := range h.lights {
		assert.True(t, l.on)
	}
}

func TestGoSignalAcrossCounterWrap(t *testing.T) {
	h := newHarness(t)
	h.clock.now = 0xFFFFFFFF - 999
	h.at(State{Phase: Playing, Winner: None, Deadline: 500})

	require.True(t, h.runUntilPhase(Reacting, 1000))
	assert.Equal(t, uint32(500), h.ctl.State().LastTransitionAt)
}

func TestEarlyPressIsFalseStart(t *testing.T) {
	h := newHarness(t)
	h.at(State{Phase: Playing, Winner: None, Deadline: 6000})
	h.clock.schedule(Player1, 3000)

	require.True(t, h.runUntilPhase(Scoring, 6000))

	s := h.ctl.State()
	assert.Equal(t, Player2, s.Winner)
	assert.True(t, s.FalseStart)
	assert.Equal(t, uint32(3000), s.LastTransitionAt)
	for _, l := range h.lights {
		assert.False(t, l.on, "go signal must not have fired")
	}
}

func TestPressAfterSignalWins(t *testing.T) {
	h := newHarness(t)
	h.at(State{Phase: Reacting, Winner: None})
	h.clock.schedule(Player2, 10)

	require.True(t, h.runUntilPhase(Scoring, 100))

	s := h.ctl.State()
	assert.Equal(t, Player2, s.Winner)
	assert.False(t, s.FalseStart)
}

func TestAnnounceWinnerTone(t *testing.T) {
	h := newHarness(t)
	h.lights[Player1].on = true
	h.lights[Player2].on = true
	h.at(State{Phase: Scoring, Winner: Player2})

	h.ctl.Step()
	h.ctl.drain()

	assert.False(t, h.lights[Player1].on)
	assert.True(t, h.lights[Player2].on)
	assert.Equal(t, []toneEvent{{at: 0, hz: 523}, {at: 500}}, h.buzzer.events)
	assert.Equal(t, []Transition{{From: Scoring, To: PostScoring, At: 500}}, h.transitions)
}

func TestAnnounceFalseStartPattern(t *testing.T) {
	h := newHarness(t)
	h.at(State{Phase: Scoring, Winner: Player1, FalseStart: true})

	h.ctl.Step()

	assert.True(t, h.lights[Player1].on)
	assert.False(t, h.lights[Player2].on)
	assert.Equal(t, []toneEvent{
		{at: 0, hz: 900}, {at: 200},
		{at: 300, hz: 900}, {at: 500},
	}, h.buzzer.events)
	s := h.ctl.State()
	assert.Equal(t, PostScoring, s.Phase)
	assert.Equal(t, uint32(600), s.LastTransitionAt)
	assert.Equal(t, Player1, s.Winner)
}

func TestJointPressAbandonsAnnouncement(t *testing.T) {
	h := newHarness(t)
	h.at(State{Phase: Scoring, Winner: Player1, FalseStart: true})
	h.clock.schedule(Player1, 150)
	h.clock.schedule(Player2, 160)

	h.ctl.Step()
	h.ctl.drain()

	assert.Equal(t, uint32(160), h.clock.now, "the wait gives up on the first tick after the press")
	assert.Equal(t, PrePlay, h.ctl.Phase(), "the main loop must not overwrite the handler's transition")
	assert.Zero(t, h.buzzer.hz)
	assert.Equal(t, []Phase{PrePlay}, h.phases())
}

func TestResultHeldForFiveSeconds(t *testing.T) {
	h := newHarness(t)
	h.clock.now = 1000
	h.lights[Player1].on = true
	h.at(State{Phase: PostScoring, Winner: Player1, LastTransitionAt: 1000})

	require.True(t, h.runUntilPhase(Ready, 20000))

	s := h.ctl.State()
	assert.Equal(t, uint32(6000), s.LastTransitionAt)
	assert.Equal(t, None, s.Winner)
	assert.False(t, h.lights[Player1].on)
}

func TestFullRound(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.clock.schedule(Player1, 2000)
	h.clock.schedule(Player2, 2030)
	// Well past the latest possible go signal.
	h.clock.schedule(Player1, 9500)
	h.clock.onTick = func() {
		if h.clock.now == 16000 {
			cancel()
		}
	}

	err := h.ctl.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []Phase{Ready, PrePlay, Playing, Reacting, Scoring, PostScoring, Ready}, h.phases())
	for i, tr := range h.transitions {
		if i > 0 {
			assert.Equal(t, h.transitions[i-1].To, tr.From)
		}
	}
	assert.Equal(t, uint32(2030), h.transitions[1].At)
	assert.Equal(t, uint32(9500), h.transitions[4].At)
	assert.Equal(t, uint32(15000), h.transitions[6].At)
	assert.Zero(t, h.buzzer.hz)
	for _, l := range h.lights {
		assert.False(t, l.on)
	}
}

func TestRunReturnsWhenAlreadyCancelled(t *testing.T) {
	h := newHarness(t)
	h.lights[Player2].on = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, h.ctl.Run(ctx), context.Canceled)
	assert.Equal(t, Startup, h.ctl.Phase())
	assert.False(t, h.lights[Player2].on)
}

func TestRandomPressesKeepInvariants(t *testing.T) {
	const horizon = 60000
	rng := rand.New(rand.NewSource(7))

	h := newHarness(t)
	for i := 0; i < 300; i++ {
		h.clock.schedule(Player(rng.Intn(2)), uint32(rng.Intn(horizon)))
	}
	for i := 0; i < 40; i++ {
		at := uint32(rng.Intn(horizon))
		h.clock.schedule(Player1, at)
		h.clock.schedule(Player2, at+uint32(rng.Intn(150)))
	}

	var last [2]uint32
	h.clock.onTick = func() {
		s := h.ctl.State()
		result := s.Phase == Scoring || s.Phase == PostScoring
		if result != (s.Winner != None) {
			t.Fatalf("t=%d: winner %v in phase %v", h.clock.now, s.Winner, s.Phase)
		}
		for _, p := range players {
			if s.PressedAt[p] < last[p] {
				t.Fatalf("t=%d: %v press record went backwards", h.clock.now, p)
			}
		}
		last = s.PressedAt
	}

	h.runUntil(horizon)

	require.NotEmpty(t, h.transitions)
	assert.Equal(t, Transition{From: Startup, To: Ready, At: 1600}, h.transitions[0])
	for i, tr := range h.transitions {
		assert.True(t, CanTransition(tr.From, tr.To), "%v -> %v", tr.From, tr.To)
		if i > 0 {
			assert.Equal(t, h.transitions[i-1].To, tr.From)
		}
	}
}

type nopBuzzer struct{}

func (nopBuzzer) Tone(uint32) {}
func (nopBuzzer) Stop()       {}

func TestConcurrentPressesWithRealClock(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Debounce = time.Millisecond
	cfg.ReactionMin = 2 * time.Millisecond
	cfg.ReactionMax = 6 * time.Millisecond
	cfg.ResultHold = 5 * time.Millisecond
	cfg.FlashStep = time.Millisecond
	cfg.WinnerTone = 2 * time.Millisecond
	cfg.ErrorBeep = time.Millisecond
	cfg.ErrorGap = time.Millisecond

	var transitions []Transition
	ctl, err := New(cfg, Hardware{
		Lights: [2]Light{&fakeLight{}, &fakeLight{}},
		Buzzer: nopBuzzer{},
		Clock:  clock.New(),
	}, WithTransitionHook(func(tr Transition) { transitions = append(transitions, tr) }))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		rng := rand.New(rand.NewSource(3))
		for ctx.Err() == nil {
			ctl.Press(Player(rng.Intn(2)))
			time.Sleep(time.Duration(rng.Intn(3000)) * time.Microsecond)
		}
	}()

	err = ctl.Run(ctx)
	wg.Wait()

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotEmpty(t, transitions)
	assert.Equal(t, Ready, transitions[0].To)
	for _, tr := range transitions {
		assert.True(t, CanTransition(tr.From, tr.To), "%v -> %v", tr.From, tr.To)
	}
	s := ctl.State()
	assert.Equal(t, s.Phase == Scoring || s.Phase == PostScoring, s.Winner != None)
}
