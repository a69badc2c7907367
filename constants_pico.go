//go:build pico

/*
 * Quickdraw for Raspberry Pi Pico
 * Go version
 *
 * @authors     smittytone
 * @copyright   2023, Tony Smith
 * @licence     MIT
 *
 */
package main

import "machine"

// GPIO pins
const (
	PIN_SDA     machine.Pin = machine.GP8
	PIN_SCL     machine.Pin = machine.GP9
	PIN_SPEAKER machine.Pin = machine.GP16

	PIN_PLAYER_1_LED    machine.Pin = machine.GP20
	PIN_PLAYER_2_LED    machine.Pin = machine.GP21
	PIN_PLAYER_1_BUTTON machine.Pin = machine.GP19
	PIN_PLAYER_2_BUTTON machine.Pin = machine.GP18

	// The Pico board carries the HT16K33 backpack
	USE_MATRIX bool = true
)

// PWM slice behind PIN_SPEAKER
var SPEAKER_PWM = machine.PWM0
