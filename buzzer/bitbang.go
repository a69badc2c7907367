/*
 * Quickdraw for Raspberry Pi Pico
 * Go version
 *
 * @authors     smittytone
 * @copyright   2023, Tony Smith
 * @licence     MIT
 *
 */

// Package buzzer drives the shared piezo.
package buzzer

import (
	"sync"
	"time"
)

// Pin is a digital output.
type Pin interface {
	High()
	Low()
}

// Bitbang toggles a plain GPIO to make a square wave, for buzzers wired to a
// pin with no PWM behind it. The wave runs on its own goroutine so the main
// loop keeps polling while a tone plays.
type Bitbang struct {
	pin Pin

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

func NewBitbang(pin Pin) *Bitbang {
	pin.Low()
	return &Bitbang{pin: pin}
}

// Tone replaces whatever is playing with a square wave at hz.
func (b *Bitbang) Tone(hz uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.halt()
	if hz == 0 {
		return
	}

	// Half the cycle period: high for one, low for the other
	half := time.Second / time.Duration(hz) / 2
	b.stop = make(chan struct{})
	b.done = make(chan struct{})
	go b.oscillate(half, b.stop, b.done)
}

// Stop silences the buzzer and leaves the pin low.
func (b *Bitbang) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.halt()
}

func (b *Bitbang) halt() {
	if b.stop == nil {
		return
	}
	close(b.stop)
	<-b.done
	b.stop, b.done = nil, nil
}

func (b *Bitbang) oscillate(half time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer b.pin.Low()

	for {
		select {
		case <-stop:
			return
		default:
		}
		b.pin.High()
		time.Sleep(half)
		b.pin.Low()
		time.Sleep(half)
	}
}
