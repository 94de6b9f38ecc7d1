//go:build !linux

package input

import "fmt"

// Stub implementation for non-Linux platforms.
type GPIOButton struct{}

func OpenButton(lineName string) (*GPIOButton, error) {
	return nil, fmt.Errorf("input: gpio unsupported on this platform")
}

func (g *GPIOButton) Level() (bool, error) {
	return true, fmt.Errorf("input: gpio unsupported on this platform")
}

func (g *GPIOButton) Close() error { return nil }
