//go:build pico || nano_rp2040

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

import "time"

/*
 * CONSTANTS
 */
const (
	// Diagnostic line printed over USB serial on every phase change
	textTransition string = "Transitioning state"

	// Indicator mirror on the 8x8 matrix: left half is player 1
	MATRIX_BRIGHTNESS uint = 2
	MATRIX_SPLIT      uint = 4
	MATRIX_WIDTH      uint = 8

	// Fail loop blink period
	FAIL_FLASH_PERIOD = 100 * time.Millisecond
)
