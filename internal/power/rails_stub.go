//go:build !linux

package power

import "fmt"

// Rail is unavailable off Linux; OpenRail always fails and callers run
// without rail control.
type Rail struct{}

func OpenRail(lineName string, activeLow bool) (*Rail, error) {
	return nil, fmt.Errorf("power: gpio rails unsupported on this platform")
}

func (r *Rail) Close() error { return nil }
