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

import "time"

// Light is a player's indicator. machine.Pin satisfies it directly.
type Light interface {
	Set(on bool)
}

// Buzzer emits a square wave until stopped.
type Buzzer interface {
	Tone(hz uint32)
	Stop()
}

// Clock is the board's millisecond counter. Sleep is only ever called from
// the main loop.
type Clock interface {
	Millis() uint32
	Sleep(d time.Duration)
}

// Hardware is everything the foreground drives.
type Hardware struct {
	Lights [2]Light
	Buzzer Buzzer
	Clock  Clock
}

func (h Hardware) complete() bool {
	return h.Lights[Player1] != nil && h.Lights[Player2] != nil && h.Buzzer != nil && h.Clock != nil
}

// Lights drives several indicators as one, e.g. an LED and a matrix region.
type Lights []Light

func (l Lights) Set(on bool) {
	for _, light := range l {
		light.Set(on)
	}
}
