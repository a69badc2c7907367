//go:build linux

package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
	"go.uber.org/zap"

	"quickdraw/buzzer"
	"quickdraw/clock"
	"quickdraw/game"
)

// serve opens the GPIO block and referees until ctx is cancelled.
func serve(ctx context.Context, cfg config, logger *zap.Logger) error {
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("opening gpio: %w", err)
	}
	defer rpio.Close()

	hw, buttons := setupPins(cfg)
	defer func() {
		for _, pin := range buttons {
			pin.Detect(rpio.NoEdge)
		}
	}()

	referee, err := game.New(game.DefaultConfig(), hw,
		game.WithTransitionHook(func(t game.Transition) {
			logger.Info("Transitioning state",
				zap.Stringer("from", t.From),
				zap.Stringer("to", t.To),
				zap.Uint32("at_ms", t.At),
			)
		}),
	)
	if err != nil {
		return err
	}

	watcher := edgeWatcher{
		pins:     [2]edgeLatch{buttons[game.Player1], buttons[game.Player2]},
		interval: cfg.poll,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		watcher.watch(ctx, referee.Press)
	}()

	logger.Info("referee ready",
		zap.Ints("buttons", cfg.buttons[:]),
		zap.Ints("leds", cfg.leds[:]),
		zap.Int("buzzer", cfg.buzzer),
		zap.Bool("buzzer_pwm", cfg.buzzerPWM),
	)

	err = referee.Run(ctx)
	wg.Wait()
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}

func setupPins(cfg config) (game.Hardware, [2]rpio.Pin) {
	var hw game.Hardware
	var buttons [2]rpio.Pin

	for i := range cfg.leds {
		led := rpio.Pin(cfg.leds[i])
		led.Output()
		led.Low()
		hw.Lights[i] = gpioLight{pin: led}

		button := rpio.Pin(cfg.buttons[i])
		button.Input()
		button.PullUp()
		button.Detect(rpio.AnyEdge)
		buttons[i] = button
	}

	speaker := rpio.Pin(cfg.buzzer)
	if cfg.buzzerPWM {
		speaker.Pwm()
		hw.Buzzer = pwmBuzzer{pin: speaker}
	} else {
		speaker.Output()
		hw.Buzzer = buzzer.NewBitbang(speaker)
	}
	hw.Buzzer.Stop()

	hw.Clock = clock.New()
	return hw, buttons
}

type gpioLight struct {
	pin rpio.Pin
}

func (l gpioLight) Set(on bool) {
	if on {
		l.pin.High()
		return
	}
	l.pin.Low()
}

// The PWM clock runs at pwmCycle times the note so one cycle is pwmCycle
// clock ticks, half of them high.
const pwmCycle = 32

type pwmBuzzer struct {
	pin rpio.Pin
}

func (b pwmBuzzer) Tone(hz uint32) {
	if hz == 0 {
		b.Stop()
		return
	}
	b.pin.Freq(int(hz) * pwmCycle)
	b.pin.DutyCycle(pwmCycle/2, pwmCycle)
}

func (b pwmBuzzer) Stop() {
	b.pin.DutyCycle(0, pwmCycle)
}

// edgeLatch is a pin with the kernel's edge-detect latch armed.
type edgeLatch interface {
	EdgeDetected() bool
}

// edgeWatcher stands in for pin interrupts. One goroutine serves both
// buttons, so presses reach the referee one at a time and never nest.
type edgeWatcher struct {
	pins     [2]edgeLatch
	interval time.Duration
}

func (w edgeWatcher) watch(ctx context.Context, press func(game.Player)) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for i, pin := range w.pins {
				if pin.EdgeDetected() {
					press(game.Player(i))
				}
			}
		}
	}
}
