package web

import (
	"sync/atomic"
	"time"
)

// Status holds the last engine snapshot for the read-only endpoint. One
// writer (the poll loop) and any number of readers.
type Status struct {
	startUnixNano int64
	snap          atomic.Value // Snapshot
}

func NewStatus() *Status {
	s := &Status{}
	atomic.StoreInt64(&s.startUnixNano, time.Now().UTC().UnixNano())
	s.snap.Store(Snapshot{})
	return s
}

// Publish replaces the stored snapshot wholesale.
func (s *Status) Publish(snap Snapshot) {
	s.snap.Store(snap)
}

// WaypointStatus is the JSON view of one waypoint slot.
type WaypointStatus struct {
	Set       bool     `json:"set"`
	Name      string   `json:"name,omitempty"`
	LatDeg    *float64 `json:"lat_deg,omitempty"`
	LonDeg    *float64 `json:"lon_deg,omitempty"`
	DistanceM *float64 `json:"distance_m,omitempty"`
}

// Snapshot is the JSON view of the tracker state.
//
// Pointer fields are omitted when the underlying reading is not valid
// (no fix, no position, no home).
type Snapshot struct {
	Service   string `json:"service"`
	NowUTC    string `json:"now_utc"`
	UptimeSec int64  `json:"uptime_sec"`

	Source string `json:"source"`

	HaveFix    bool     `json:"have_fix"`
	SatsInView int      `json:"sats_in_view"`
	HDOP       *float64 `json:"hdop,omitempty"`
	LatDeg     *float64 `json:"lat_deg,omitempty"`
	LonDeg     *float64 `json:"lon_deg,omitempty"`
	SpeedKmh   *float64 `json:"speed_kmh,omitempty"`

	HomeSet       bool     `json:"home_set"`
	HomeDistanceM *float64 `json:"home_distance_m,omitempty"`

	BatteryPct int  `json:"battery_pct"`
	Charging   bool `json:"charging"`

	Screen         string           `json:"screen"`
	ActiveWaypoint int              `json:"active_waypoint"`
	Waypoints      []WaypointStatus `json:"waypoints"`
}

func (s *Status) Snapshot(nowUTC time.Time) Snapshot {
	if nowUTC.IsZero() {
		nowUTC = time.Now().UTC()
	}
	start := time.Unix(0, atomic.LoadInt64(&s.startUnixNano)).UTC()

	snap := s.snap.Load().(Snapshot)
	snap.Service = "trailtracker"
	snap.NowUTC = nowUTC.UTC().Format(time.RFC3339Nano)
	snap.UptimeSec = int64(nowUTC.Sub(start).Seconds())
	return snap
}
