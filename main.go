//go:build pico || nano_rp2040

/*
 * Quickdraw for Raspberry Pi Pico
 * Go version
 *
 * @version     0.1.0
 * @authors     smittytone
 * @copyright   2023, Tony Smith
 * @licence     MIT
 *
 */
package main

import (
	"context"
	"machine"
	"math/rand"
	"runtime/interrupt"
	"time"

	"quickdraw/buzzer"
	"quickdraw/clock"
	"quickdraw/game"
	"quickdraw/ht16k33"
)

func main() {

	// Set up the hardware or fail
	if err := setup(); err != nil {
		failLoop(err)
	}

	// Referee rounds until the board is reset
	referee.Run(context.Background())
}

/*
 *  Initialisation Functions
 */
func setup() error {

	// Set up the player indicator output pins
	PIN_PLAYER_1_LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_PLAYER_1_LED.Low()
	PIN_PLAYER_2_LED.Configure(machine.PinConfig{Mode: machine.PinOutput})
	PIN_PLAYER_2_LED.Low()

	// Set up the player buttons: pulled up, so a press reads low
	PIN_PLAYER_1_BUTTON.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	PIN_PLAYER_2_BUTTON.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	// Set up the speaker
	speaker, err := buzzer.NewSpeaker(SPEAKER_PWM, PIN_SPEAKER)
	if err != nil {
		return err
	}

	// Mirror the indicators on the LED matrix, if fitted
	lights := [2]game.Light{PIN_PLAYER_1_LED, PIN_PLAYER_2_LED}
	if USE_MATRIX {
		i2c := machine.I2C0
		err = i2c.Configure(machine.I2CConfig{SCL: PIN_SCL, SDA: PIN_SDA})
		if err != nil {
			// Couldn't configure I2C
			return err
		}

		matrix = ht16k33.New(i2c)
		if err := matrix.Init(MATRIX_BRIGHTNESS); err != nil {
			return err
		}

		lights[game.Player1] = game.Lights{PIN_PLAYER_1_LED, matrix.Region(0, MATRIX_SPLIT)}
		lights[game.Player2] = game.Lights{PIN_PLAYER_2_LED, matrix.Region(MATRIX_SPLIT, MATRIX_WIDTH)}
	}

	// Seed the reaction window from the ring oscillator
	seed, err := machine.GetRNG()
	if err != nil {
		seed = uint32(time.Now().UnixNano())
	}

	referee, err = game.New(game.DefaultConfig(), game.Hardware{
		Lights: lights,
		Buzzer: speaker,
		Clock:  clock.New(),
	},
		game.WithLocker(&criticalSection{}),
		game.WithRand(rand.New(rand.NewSource(int64(seed)))),
		game.WithTransitionHook(printTransition),
	)
	if err != nil {
		return err
	}

	// Buttons go live last: every edge, both directions, is a press
	err = PIN_PLAYER_1_BUTTON.SetInterrupt(machine.PinToggle, func(machine.Pin) {
		referee.Press(game.Player1)
	})
	if err != nil {
		return err
	}
	return PIN_PLAYER_2_BUTTON.SetInterrupt(machine.PinToggle, func(machine.Pin) {
		referee.Press(game.Player2)
	})
}

// criticalSection masks interrupts while the main loop touches the round.
// A button interrupt can never land inside one, so the saved state is never
// overwritten by the handler's own Lock.
type criticalSection struct {
	state interrupt.State
}

func (c *criticalSection) Lock() {
	c.state = interrupt.Disable()
}

func (c *criticalSection) Unlock() {
	interrupt.Restore(c.state)
}

func printTransition(t game.Transition) {

	println(textTransition, t.From.String(), "->", t.To.String())
}

func failLoop(err error) {

	println(err.Error())

	// Signal hardware failure on the Pico LED
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for {
		led.Low()
		time.Sleep(FAIL_FLASH_PERIOD)
		led.High()
		time.Sleep(FAIL_FLASH_PERIOD)
	}
}
