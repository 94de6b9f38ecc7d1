// Package nav provides the great-circle math and waypoint bookkeeping used
// by the navigation screens.
package nav

import (
	"fmt"
	"math"
)

// earthRadiusM is the mean earth radius used by the haversine distance.
const earthRadiusM = 6371000.0

// WaypointSlots is the number of persisted waypoint slots.
const WaypointSlots = 3

// waypointNameMax caps stored waypoint names so they fit a display row.
const waypointNameMax = 11

// Point is a position in signed decimal degrees.
type Point struct {
	LatDeg float64
	LonDeg float64
}

func deg2rad(d float64) float64 { return d * math.Pi / 180.0 }

// Distance returns the haversine great-circle distance between two points
// in meters.
func Distance(from, to Point) float64 {
	dLat := deg2rad(to.LatDeg - from.LatDeg)
	dLon := deg2rad(to.LonDeg - from.LonDeg)
	lat1 := deg2rad(from.LatDeg)
	lat2 := deg2rad(to.LatDeg)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusM * c
}

// Bearing returns the initial great-circle bearing from one point toward
// another, in degrees normalized to [0,360).
func Bearing(from, to Point) float64 {
	lat1 := deg2rad(from.LatDeg)
	lat2 := deg2rad(to.LatDeg)
	dLon := deg2rad(to.LonDeg - from.LonDeg)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	deg := math.Atan2(y, x) * 180.0 / math.Pi
	return math.Mod(deg+360.0, 360.0)
}

// Cardinal maps a bearing in degrees to one of the eight compass letters.
// Sectors are 45 degrees wide and centered on each direction, so "N" covers
// [337.5,360) plus [0,22.5).
func Cardinal(bearing float64) string {
	switch {
	case bearing >= 337.5 || bearing < 22.5:
		return "N"
	case bearing < 67.5:
		return "NE"
	case bearing < 112.5:
		return "E"
	case bearing < 157.5:
		return "SE"
	case bearing < 202.5:
		return "S"
	case bearing < 247.5:
		return "SW"
	case bearing < 292.5:
		return "W"
	default:
		return "NW"
	}
}

// Direction is the display form of a bearing: "O" while there is no fix,
// "N" when there is a fix but no target established yet, and the cardinal
// sector otherwise.
func Direction(haveFix, targetSet bool, bearing float64) string {
	if !haveFix {
		return "O"
	}
	if !targetSet {
		return "N"
	}
	return Cardinal(bearing)
}

// Waypoint is one persisted slot. Name is regenerated on load and never
// persisted.
type Waypoint struct {
	Point
	Set  bool
	Name string
}

// Saver persists the full slot array. Implementations own the byte layout.
type Saver interface {
	Save(slots [WaypointSlots]Waypoint) error
}

// Bank holds the waypoint slots and writes every mutation through the
// configured saver.
type Bank struct {
	slots [WaypointSlots]Waypoint
	saver Saver
}

func NewBank(saver Saver) *Bank {
	return &Bank{saver: saver}
}

// Restore replaces the slots without persisting, for boot-time loads.
func (b *Bank) Restore(slots [WaypointSlots]Waypoint) {
	b.slots = slots
}

func (b *Bank) Get(i int) Waypoint {
	if i < 0 || i >= WaypointSlots {
		return Waypoint{}
	}
	return b.slots[i]
}

// All returns a copy of every slot.
func (b *Bank) All() [WaypointSlots]Waypoint {
	return b.slots
}

// States reports which slots are set, in slot order.
func (b *Bank) States() [WaypointSlots]bool {
	var out [WaypointSlots]bool
	for i, w := range b.slots {
		out[i] = w.Set
	}
	return out
}

// Set stores a position in a slot and persists the bank. Names longer than
// the display row allows are truncated.
func (b *Bank) Set(i int, p Point, name string) error {
	if i < 0 || i >= WaypointSlots {
		return fmt.Errorf("nav: waypoint slot %d out of range", i)
	}
	if len(name) > waypointNameMax {
		name = name[:waypointNameMax]
	}
	b.slots[i] = Waypoint{Point: p, Set: true, Name: name}
	return b.save()
}

// Clear empties a slot and persists the bank.
func (b *Bank) Clear(i int) error {
	if i < 0 || i >= WaypointSlots {
		return fmt.Errorf("nav: waypoint slot %d out of range", i)
	}
	b.slots[i] = Waypoint{}
	return b.save()
}

func (b *Bank) save() error {
	if b.saver == nil {
		return nil
	}
	if err := b.saver.Save(b.slots); err != nil {
		return fmt.Errorf("nav: persist waypoints: %w", err)
	}
	return nil
}
