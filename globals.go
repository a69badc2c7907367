//go:build pico || nano_rp2040

package main

import (
	"quickdraw/game"
	"quickdraw/ht16k33"
)

/*
 * GLOBALS
 */
// The referee, shared with the button interrupts
var referee *game.Controller

// Display instance
var matrix ht16k33.HT16K33
