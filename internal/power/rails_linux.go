//go:build linux

package power

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

// Rail is one GPIO-driven enable line. Opening a rail drives it to its
// active level; closing cuts it again.
type Rail struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
	off  int
}

// OpenRail claims lineName as an output and switches the rail on.
// Active-low rails are driven to 0 when on.
func OpenRail(lineName string, activeLow bool) (*Rail, error) {
	if lineName == "" {
		return nil, fmt.Errorf("power: empty rail line name")
	}
	on, off := 1, 0
	if activeLow {
		on, off = 0, 1
	}

	chipCandidates := []string{"/dev/gpiochip0"}
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
			gpiocdev.AsOutput(on),
			gpiocdev.WithConsumer("trailtracker-rail"))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &Rail{chip: chip, line: line, off: off}, nil
	}

	return nil, fmt.Errorf("power: rail line %q not found (or busy)", lineName)
}

// Close cuts the rail and releases the line.
func (r *Rail) Close() error {
	if r == nil || r.line == nil {
		return nil
	}
	_ = r.line.SetValue(r.off)
	err := r.line.Close()
	r.line = nil
	if r.chip != nil {
		_ = r.chip.Close()
		r.chip = nil
	}
	return err
}
