//go:build tinygo

/*
 * Quickdraw for Raspberry Pi Pico
 * Go version
 *
 * @authors     smittytone
 * @copyright   2023, Tony Smith
 * @licence     MIT
 *
 */
package buzzer

import (
	"fmt"
	"machine"

	"tinygo.org/x/drivers/tone"
)

// Speaker plays tones from a hardware PWM slice, so nothing has to be
// toggled in software while the main loop waits.
type Speaker struct {
	out tone.Speaker
}

// NewSpeaker configures pwm to drive pin.
func NewSpeaker(pwm tone.PWM, pin machine.Pin) (*Speaker, error) {
	out, err := tone.New(pwm, pin)
	if err != nil {
		return nil, fmt.Errorf("buzzer on pin %d: %w", pin, err)
	}
	return &Speaker{out: out}, nil
}

func (s *Speaker) Tone(hz uint32) {
	if hz == 0 {
		s.out.Stop()
		return
	}

	// Period in nanoseconds
	s.out.SetPeriod(1e9 / uint64(hz))
}

func (s *Speaker) Stop() {
	s.out.Stop()
}
