// Package battery estimates state of charge from the pack voltage seen
// through the board's divider.
package battery

import (
	"math"
	"time"
)

const (
	// adcMaxCount is the full-scale count of the estimator's ADC contract.
	adcMaxCount = 4095
	// dividerRatio undoes the resistor divider between pack and ADC pin.
	dividerRatio = 5.05
)

// chargeWindow is the minimum spacing between charge-trend evaluations.
const chargeWindow = 10 * time.Second

// ringSize is the number of percent samples in the smoothing window.
const ringSize = 5

// ADC reads the battery divider. Implementations report a count on the
// 12-bit contract scale together with their reference voltage; Calibrated
// turns the pair into pack volts.
type ADC interface {
	Read() (counts int, refVolts float64, err error)
}

// Calibrated converts a raw count into pack volts:
// counts/4095 * refVolts * 5.05.
func Calibrated(counts int, refVolts float64) float64 {
	return float64(counts) / adcMaxCount * refVolts * dividerRatio
}

// socCurve is the LiPo discharge curve, volts ascending.
var socCurve = [...]struct {
	volts float64
	pct   float64
}{
	{3.30, 0},
	{3.50, 5},
	{3.60, 15},
	{3.70, 30},
	{3.80, 50},
	{3.90, 70},
	{4.00, 85},
	{4.10, 95},
	{4.20, 100},
}

// VoltageToPercent maps pack volts to a state-of-charge estimate by linear
// interpolation over the discharge curve, rounded to the nearest percent.
// Readings at or below the curve floor clamp to 0, at or above the ceiling
// to 100.
func VoltageToPercent(v float64) int {
	if v <= socCurve[0].volts {
		return 0
	}
	last := socCurve[len(socCurve)-1]
	if v >= last.volts {
		return int(last.pct)
	}
	for i := 1; i < len(socCurve); i++ {
		hi := socCurve[i]
		if v < hi.volts {
			lo := socCurve[i-1]
			frac := (v - lo.volts) / (hi.volts - lo.volts)
			return int(math.Round(lo.pct + frac*(hi.pct-lo.pct)))
		}
	}
	return int(last.pct)
}

// Estimator smooths the percentage reading and tracks the charge trend.
// One StablePercent call per display tick keeps the window spanning a few
// seconds of wall time.
type Estimator struct {
	ring [ringSize]int
	idx  int
	full bool

	charging    bool
	lastVolts   float64
	lastTrendAt time.Time
}

// StablePercent folds one voltage sample into the rolling window and
// returns the smoothed percentage. Until the window has filled once the
// raw reading is returned unsmoothed.
func (e *Estimator) StablePercent(v float64) int {
	raw := VoltageToPercent(v)
	e.ring[e.idx] = raw
	e.idx++
	if e.idx == ringSize {
		e.idx = 0
		e.full = true
	}
	if !e.full {
		return raw
	}
	sum := 0
	for _, p := range e.ring {
		sum += p
	}
	return int(math.Round(float64(sum) / ringSize))
}

// Charging re-evaluates the charge trend at most once per chargeWindow and
// reports the retained state in between. Raising the flag needs both a high
// voltage and a rising delta; dropping it needs a low voltage or a falling
// delta.
//
// The first call only seeds the reference voltage and reports not charging.
func (e *Estimator) Charging(now time.Time, v float64) bool {
	if e.lastTrendAt.IsZero() {
		e.lastVolts = v
		e.lastTrendAt = now
		e.charging = false
		return false
	}
	if now.Sub(e.lastTrendAt) < chargeWindow {
		return e.charging
	}
	delta := v - e.lastVolts
	if v > 4.15 && delta > 0.05 {
		e.charging = true
	} else if v < 4.10 || delta < -0.02 {
		e.charging = false
	}
	e.lastVolts = v
	e.lastTrendAt = now
	return e.charging
}
