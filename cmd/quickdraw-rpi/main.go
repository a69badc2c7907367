//go:build linux

// Command quickdraw-rpi referees quickdraw rounds on a Raspberry Pi's GPIO
// header instead of a microcontroller.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"go.uber.org/zap"
)

// BCM pin numbers for the default wiring.
const (
	defaultP1Button = 17
	defaultP2Button = 27
	defaultP1LED    = 22
	defaultP2LED    = 23
	defaultBuzzer   = 18 // PWM0
	defaultPoll     = time.Millisecond
)

type config struct {
	buttons   [2]int
	leds      [2]int
	buzzer    int
	buzzerPWM bool
	poll      time.Duration
	debug     bool
}

func main() {
	if err := run(); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return buildCLI(startReferee).ParseAndRun(ctx, os.Args[1:])
}

func buildCLI(exec func(context.Context, config) error) *ffcli.Command {
	var cfg config
	fs := flag.NewFlagSet("quickdraw-rpi", flag.ExitOnError)
	fs.IntVar(&cfg.buttons[0], "p1-button", defaultP1Button, "BCM pin of player 1's button (pulled up, active low)")
	fs.IntVar(&cfg.buttons[1], "p2-button", defaultP2Button, "BCM pin of player 2's button (pulled up, active low)")
	fs.IntVar(&cfg.leds[0], "p1-led", defaultP1LED, "BCM pin of player 1's indicator")
	fs.IntVar(&cfg.leds[1], "p2-led", defaultP2LED, "BCM pin of player 2's indicator")
	fs.IntVar(&cfg.buzzer, "buzzer", defaultBuzzer, "BCM pin of the buzzer")
	fs.BoolVar(&cfg.buzzerPWM, "buzzer-pwm", true, "Drive the buzzer from hardware PWM (needs a PWM-capable pin and root)")
	fs.DurationVar(&cfg.poll, "poll", defaultPoll, "Button edge polling interval")
	fs.BoolVar(&cfg.debug, "debug", false, "Human-readable debug logging")

	return &ffcli.Command{
		Name:       "quickdraw-rpi",
		ShortUsage: "quickdraw-rpi [flags]",
		ShortHelp:  "Referee a two-player quickdraw on Raspberry Pi GPIO",
		LongHelp:   "Every flag can also be set from the environment, e.g. QUICKDRAW_P1_BUTTON=5.",
		FlagSet:    fs,
		Options:    []ff.Option{ff.WithEnvVarPrefix("QUICKDRAW")},
		Exec: func(ctx context.Context, _ []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return exec(ctx, cfg)
		},
	}
}

func startReferee(ctx context.Context, cfg config) error {
	logger, err := newLogger(cfg.debug)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()
	return serve(ctx, cfg, logger)
}

func (c config) validate() error {
	seen := make(map[int]string)
	pins := []struct {
		name string
		pin  int
	}{
		{"p1-button", c.buttons[0]},
		{"p2-button", c.buttons[1]},
		{"p1-led", c.leds[0]},
		{"p2-led", c.leds[1]},
		{"buzzer", c.buzzer},
	}
	for _, p := range pins {
		if p.pin < 0 || p.pin > 27 {
			return fmt.Errorf("-%s: BCM pin %d out of range", p.name, p.pin)
		}
		if other, ok := seen[p.pin]; ok {
			return fmt.Errorf("-%s: BCM pin %d already used by -%s", p.name, p.pin, other)
		}
		seen[p.pin] = p.name
	}
	if c.poll <= 0 {
		return fmt.Errorf("-poll must be positive, got %v", c.poll)
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
