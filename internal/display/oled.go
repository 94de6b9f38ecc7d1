// Package display implements the text-row drawing contract on an SSD1306
// OLED. The screen state machine addresses rows on a 16-unit grid
// (y = 0..64); the 64-pixel panel packs them at the font pitch so all
// five rows fit.
package display

import (
	"fmt"
	"image"
	"image/draw"
	"log"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
)

const (
	panelW = 128
	panelH = 64

	rowUnit  = 16 // controller row grid
	rowPitch = 13 // basicfont.Face7x13 height
	baseline = 11 // ascent within a row
	glyphW   = 7
)

// OLED drives the panel behind the Fill/WriteText contract.
type OLED struct {
	dev  *ssd1306.Dev
	img  *image1bit.VerticalLSB
	face font.Face
}

// NewOLED opens the default SSD1306 on the given bus.
func NewOLED(bus i2c.Bus) (*OLED, error) {
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return nil, fmt.Errorf("display: open ssd1306: %w", err)
	}
	return &OLED{
		dev:  dev,
		img:  image1bit.NewVerticalLSB(image.Rect(0, 0, panelW, panelH)),
		face: basicfont.Face7x13,
	}, nil
}

// Fill paints the whole panel. Zero is black; anything else lights every
// pixel.
func (o *OLED) Fill(rgb uint16) {
	bit := image1bit.Off
	if rgb != 0 {
		bit = image1bit.On
	}
	draw.Draw(o.img, o.img.Bounds(), &image.Uniform{bit}, image.Point{}, draw.Src)
	o.flush()
}

// WriteText draws one text row opaquely: the row cell is cleared first so
// the new text fully replaces whatever was there.
func (o *OLED) WriteText(x, y int, text string) {
	row := y / rowUnit
	top := row * rowPitch
	cell := image.Rect(x, top, x+len(text)*glyphW, top+rowPitch)
	draw.Draw(o.img, cell, &image.Uniform{image1bit.Off}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  o.img,
		Src:  &image.Uniform{image1bit.On},
		Face: o.face,
		Dot:  fixed.P(x, top+baseline),
	}
	d.DrawString(text)
	o.flush()
}

func (o *OLED) flush() {
	if err := o.dev.Draw(o.dev.Bounds(), o.img, image.Point{}); err != nil {
		log.Printf("display: flush: %v", err)
	}
}

// Halt blanks and powers down the panel.
func (o *OLED) Halt() error {
	return o.dev.Halt()
}

// Nop is a do-nothing display for headless runs.
type Nop struct{}

func (Nop) Fill(rgb uint16) {}

func (Nop) WriteText(x, y int, text string) {}
