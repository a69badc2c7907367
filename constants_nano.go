//go:build nano_rp2040

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

// GPIO pins, matching the Uno-style header layout
const (
	PIN_SDA     machine.Pin = machine.GPIO12
	PIN_SCL     machine.Pin = machine.GPIO13
	PIN_SPEAKER machine.Pin = machine.D10

	PIN_PLAYER_1_LED    machine.Pin = machine.D5
	PIN_PLAYER_2_LED    machine.Pin = machine.D6
	PIN_PLAYER_1_BUTTON machine.Pin = machine.D4
	PIN_PLAYER_2_BUTTON machine.Pin = machine.D3

	USE_MATRIX bool = false
)

// PWM slice behind PIN_SPEAKER (D10 is GPIO5)
var SPEAKER_PWM = machine.PWM2
