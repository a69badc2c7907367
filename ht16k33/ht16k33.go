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
package ht16k33

import "fmt"

// HT16K33 LED Matrix Commands
const (
	HT16K33_GENERIC_DISPLAY_ON      uint8 = 0x81
	HT16K33_GENERIC_DISPLAY_OFF     uint8 = 0x80
	HT16K33_GENERIC_SYSTEM_ON       uint8 = 0x21
	HT16K33_GENERIC_SYSTEM_OFF      uint8 = 0x20
	HT16K33_GENERIC_DISPLAY_ADDRESS uint8 = 0x00
	HT16K33_GENERIC_CMD_BRIGHTNESS  uint8 = 0xE0
	HT16K33_ADDRESS                 uint8 = 0x70

	HT16K33_MAX_BRIGHTNESS uint = 15
	HT16K33_COLUMNS        uint = 8
)

// Bus is the host I2C bus. *machine.I2C satisfies it.
type Bus interface {
	Tx(addr uint16, w, r []byte) error
}

type HT16K33 struct {
	// Host I2C bus
	bus Bus
	// Internal data: brightness level, buffer
	address    uint8
	brightness uint
	buffer     []byte
}

func New(bus Bus) HT16K33 {

	return HT16K33{bus: bus, address: HT16K33_ADDRESS, brightness: HT16K33_MAX_BRIGHTNESS, buffer: make([]byte, HT16K33_COLUMNS)}
}

func (p *HT16K33) Init(brightness uint) error {

	if err := p.Power(true); err != nil {
		return err
	}
	if err := p.SetBrightness(brightness); err != nil {
		return err
	}
	p.Clear()
	return p.Draw()
}

func (p *HT16K33) Power(isOn bool) error {

	if isOn {
		if err := p.i2cWriteByte(HT16K33_GENERIC_SYSTEM_ON); err != nil {
			return err
		}
		return p.i2cWriteByte(HT16K33_GENERIC_DISPLAY_ON)
	}

	if err := p.i2cWriteByte(HT16K33_GENERIC_DISPLAY_OFF); err != nil {
		return err
	}
	return p.i2cWriteByte(HT16K33_GENERIC_SYSTEM_OFF)
}

func (p *HT16K33) SetBrightness(brightness uint) error {

	if brightness > HT16K33_MAX_BRIGHTNESS {
		brightness = HT16K33_MAX_BRIGHTNESS
	}

	p.brightness = brightness
	return p.i2cWriteByte(HT16K33_GENERIC_CMD_BRIGHTNESS | byte(brightness&0xFF))
}

func (p *HT16K33) Plot(x uint, y uint, isSet bool) {

	// Set or unset the specified pixel
	col := p.buffer[x]

	if isSet {
		col |= (1 << y)
	} else {
		col &= ^(1 << y)
	}

	p.buffer[x] = col
}

// Fill sets or clears every pixel in columns [from, to).
func (p *HT16K33) Fill(from uint, to uint, isSet bool) {

	var value byte
	if isSet {
		value = 0xFF
	}

	for x := from; x < to && x < HT16K33_COLUMNS; x++ {
		p.buffer[x] = value
	}
}

func (p *HT16K33) Clear() {

	// Clear the display buffer
	p.Fill(0, HT16K33_COLUMNS, false)
}

func (p *HT16K33) Draw() error {

	// Set up the buffer holding the data to be
	// transmitted to the LED
	output_buffer := [17]byte{HT16K33_GENERIC_DISPLAY_ADDRESS}

	// Span the 8 bytes of the graphics buffer
	// across the 16 bytes of the LED's buffer
	for i := 0; i < int(HT16K33_COLUMNS); i++ {
		a := p.buffer[i]
		output_buffer[i*2+1] = (a >> 1) + ((a << 7) & 0xFF)
	}

	// Write out the transmit buffer
	return p.i2cWriteBlock(output_buffer[:])
}

// Region is a block of columns that lights up as one indicator.
type Region struct {
	matrix *HT16K33
	from   uint
	to     uint
}

// Region returns columns [from, to) as an indicator.
func (p *HT16K33) Region(from uint, to uint) Region {

	return Region{matrix: p, from: from, to: to}
}

// Set fills or clears the region and pushes the frame. A failed write only
// costs a stale frame, so it is dropped.
func (r Region) Set(isOn bool) {

	r.matrix.Fill(r.from, r.to, isOn)
	_ = r.matrix.Draw()
}

func (p *HT16K33) i2cWriteByte(value byte) error {

	// Convenience function to write a single byte to the matrix
	data := [1]byte{value}
	return p.i2cWriteBlock(data[:])
}

func (p *HT16K33) i2cWriteBlock(data []byte) error {

	// Convenience function to write a 'count' bytes to the matrix
	if err := p.bus.Tx(uint16(p.address), data, nil); err != nil {
		return fmt.Errorf("ht16k33 write to 0x%02X: %w", p.address, err)
	}
	return nil
}
