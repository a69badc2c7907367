/*
 * Quickdraw for Raspberry Pi Pico
 * Go version
 *
 * @authors     smittytone
 * @copyright   2023, Tony Smith
 * @licence     MIT
 *
 */
package game

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidConfig = errors.New("invalid game config")

// Tones holds the buzzer frequencies in Hz.
type Tones struct {
	Player1 uint32
	Player2 uint32
	Start   uint32
	Error   uint32
}

// For returns the identity tone of p.
func (t Tones) For(p Player) uint32 {
	if p == Player2 {
		return t.Player2
	}
	return t.Player1
}

// Config carries every timing and tone the referee uses.
type Config struct {
	// Two presses closer together than this count as simultaneous.
	Debounce time.Duration

	// The go signal fires at a uniformly random offset in [ReactionMin, ReactionMax).
	ReactionMin time.Duration
	ReactionMax time.Duration

	// How long the result stays on show before the game returns to Ready.
	ResultHold time.Duration

	// Length of one attract/flash step.
	FlashStep time.Duration

	// Identity tone length when announcing a legitimate winner.
	WinnerTone time.Duration

	// False-start pattern: ErrorRepeats beeps of ErrorBeep followed by ErrorGap.
	ErrorBeep    time.Duration
	ErrorGap     time.Duration
	ErrorRepeats int

	// Attract sequence passes at startup.
	AttractPasses int

	// Poll interval for interruptible waits and the main loop.
	Tick time.Duration

	Tones Tones
}

// DefaultConfig returns the timings and notes the cabinet ships with.
func DefaultConfig() Config {
	return Config{
		Debounce:      100 * time.Millisecond,
		ReactionMin:   5000 * time.Millisecond,
		ReactionMax:   7000 * time.Millisecond,
		ResultHold:    5000 * time.Millisecond,
		FlashStep:     200 * time.Millisecond,
		WinnerTone:    500 * time.Millisecond,
		ErrorBeep:     200 * time.Millisecond,
		ErrorGap:      100 * time.Millisecond,
		ErrorRepeats:  2,
		AttractPasses: 2,
		Tick:          time.Millisecond,
		Tones: Tones{
			Player1: 494, // B4
			Player2: 523, // C5
			Start:   440, // A4
			Error:   900,
		},
	}
}

// Validate checks the config can drive a round.
func (c Config) Validate() error {
	switch {
	case c.Debounce < time.Millisecond:
		return fmt.Errorf("%w: debounce %v is below 1ms", ErrInvalidConfig, c.Debounce)
	case c.ReactionMin < 0 || c.ReactionMax <= c.ReactionMin:
		return fmt.Errorf("%w: reaction window [%v, %v) is empty", ErrInvalidConfig, c.ReactionMin, c.ReactionMax)
	case c.ReactionMax/time.Millisecond > 1<<30:
		return fmt.Errorf("%w: reaction window ends too late at %v", ErrInvalidConfig, c.ReactionMax)
	case c.Tick <= 0:
		return fmt.Errorf("%w: tick must be positive", ErrInvalidConfig)
	case c.ResultHold < 0 || c.FlashStep < 0 || c.WinnerTone < 0 || c.ErrorBeep < 0 || c.ErrorGap < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	case c.ErrorRepeats < 0 || c.AttractPasses < 0:
		return fmt.Errorf("%w: negative repeat count", ErrInvalidConfig)
	case c.Tones.Player1 == 0 || c.Tones.Player2 == 0 || c.Tones.Start == 0 || c.Tones.Error == 0:
		return fmt.Errorf("%w: tones must be non-zero", ErrInvalidConfig)
	}
	return nil
}
