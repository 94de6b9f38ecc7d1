// Package power enters system sleep states and drives the GPIO supply
// rails for the GNSS receiver and the display backlight.
package power

import (
	"fmt"
	"os"
	"strings"
)

// statePath is a package var so tests can point it at a scratch file.
var statePath = "/sys/power/state"

// Manager suspends the system. Wake sources (the button line as an
// interrupt) are the platform's to configure, not ours.
type Manager struct{}

func NewManager() *Manager { return &Manager{} }

// LightSleep freezes userspace until a wake interrupt; returns after
// resume.
func (m *Manager) LightSleep() error {
	return writeState("freeze")
}

// DeepSleep suspends to RAM.
func (m *Manager) DeepSleep() error {
	return writeState("mem")
}

func writeState(state string) error {
	supported, err := os.ReadFile(statePath)
	if err != nil {
		return fmt.Errorf("power: read %s: %w", statePath, err)
	}
	if !hasWord(string(supported), state) {
		return fmt.Errorf("power: state %q not supported (have %q)",
			state, strings.TrimSpace(string(supported)))
	}

	// Sysfs attributes reject truncation flags; plain O_WRONLY only.
	f, err := os.OpenFile(statePath, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("power: open %s: %w", statePath, err)
	}
	_, werr := f.WriteString(state)
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("power: enter %s: %w", state, werr)
	}
	if cerr != nil {
		return fmt.Errorf("power: enter %s: %w", state, cerr)
	}
	return nil
}

func hasWord(list, w string) bool {
	for _, f := range strings.Fields(list) {
		if f == w {
			return true
		}
	}
	return false
}
