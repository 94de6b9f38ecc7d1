//go:build linux

package input

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// GPIOButton samples the tracker's button through the Linux GPIO character
// device.
type GPIOButton struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// OpenButton requests lineName (for example "GPIO17") as a pulled-up input
// on whichever chip exposes it.
func OpenButton(lineName string) (*GPIOButton, error) {
	if lineName == "" {
		return nil, fmt.Errorf("input: empty gpio line name")
	}

	// Pi kernels expose header GPIOs on gpiochip0, newer boards sometimes on
	// additional chips; try the likely ones first and then everything else.
	chipCandidates := []string{"/dev/gpiochip0", "/dev/gpiochip4"}
	entries, _ := os.ReadDir("/dev")
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "gpiochip") {
			chipCandidates = append(chipCandidates, filepath.Join("/dev", name))
		}
	}

	for _, chipPath := range chipCandidates {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(lineName)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset,
			gpiocdev.AsInput,
			gpiocdev.WithPullUp,
			gpiocdev.WithConsumer("trailtracker-button"))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &GPIOButton{chip: chip, line: line}, nil
	}
	return nil, fmt.Errorf("input: gpio line %q not found (or busy)", lineName)
}

// Level reports the instantaneous line level; true means released.
func (g *GPIOButton) Level() (bool, error) {
	if g == nil || g.line == nil {
		return true, fmt.Errorf("input: button not initialized")
	}
	v, err := g.line.Value()
	if err != nil {
		return true, err
	}
	return v != 0, nil
}

func (g *GPIOButton) Close() error {
	if g == nil || g.line == nil {
		return nil
	}
	err := g.line.Close()
	g.line = nil
	if g.chip != nil {
		_ = g.chip.Close()
		g.chip = nil
	}
	return err
}
