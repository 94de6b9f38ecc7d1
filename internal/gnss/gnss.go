// Package gnss decodes the receiver's NMEA stream into the fix, satellite,
// position, home and speed state the rest of the tracker consumes.
//
// The decoder is deliberately tolerant: sentences are trusted as received
// (no checksum verification), malformed fields degrade to zero values, and
// nothing here returns an error. A handheld with a flaky receiver should
// keep running on whatever it last heard.
package gnss

import (
	"log"
	"strconv"
	"strings"
	"time"

	"trailtracker/internal/nav"
)

// hdopNone is reported until a plausible HDOP has been seen.
const hdopNone = 99.99

// speedWindow is the minimum spacing between speed-over-ground updates.
const speedWindow = 2000 * time.Millisecond

// State accumulates everything learned from the NMEA stream. It is owned
// by the engine loop and is not safe for concurrent use.
type State struct {
	gpsInView     int
	glonassInView int
	beidouInView  int
	galileoInView int
	qzssInView    int
	totalInView   int

	haveFix bool
	hdop    float64

	pos   nav.Point
	posOK bool

	// home latches on the first accepted position that arrives with a fix
	// and never changes afterwards.
	home *nav.Point

	speedRef     nav.Point
	speedRefTime time.Time
	speedKmh     float64
	speedOK      bool
}

func NewState() *State {
	return &State{hdop: hdopNone}
}

// Snapshot is a copy of the decoded state at one instant.
type Snapshot struct {
	HaveFix bool
	HDOP    float64

	GPSInView     int
	GlonassInView int
	BeidouInView  int
	GalileoInView int
	QZSSInView    int
	TotalInView   int

	HasPosition bool
	Position    nav.Point

	HomeSet bool
	Home    nav.Point

	SpeedValid bool
	SpeedKmh   float64
}

func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		HaveFix:       s.haveFix,
		HDOP:          s.hdop,
		GPSInView:     s.gpsInView,
		GlonassInView: s.glonassInView,
		BeidouInView:  s.beidouInView,
		GalileoInView: s.galileoInView,
		QZSSInView:    s.qzssInView,
		TotalInView:   s.totalInView,
		HasPosition:   s.posOK,
		Position:      s.pos,
		SpeedValid:    s.speedOK,
		SpeedKmh:      s.speedKmh,
	}
	if s.home != nil {
		snap.HomeSet = true
		snap.Home = *s.home
	}
	return snap
}

// ProcessLine dispatches one complete sentence on its 6-character address
// field. Unknown sentences are ignored.
func (s *State) ProcessLine(now time.Time, line string) {
	if len(line) >= 6 {
		switch line[:6] {
		case "$GPGSV":
			s.gpsInView = gsvInView(line)
		case "$GLGSV":
			s.glonassInView = gsvInView(line)
		case "$GBGSV":
			s.beidouInView = gsvInView(line)
		case "$GAGSV":
			s.galileoInView = gsvInView(line)
		case "$GQGSV":
			s.qzssInView = gsvInView(line)
		case "$GNGGA":
			s.applyGGA(now, line)
		}
	}
	// The total is derived state, kept in step after every line.
	s.totalInView = s.gpsInView + s.glonassInView + s.beidouInView +
		s.galileoInView + s.qzssInView
}

// gsvInView extracts the satellites-in-view count, the fourth field of a
// GSV sentence. Malformed sentences count as zero.
func gsvInView(line string) int {
	n, err := strconv.Atoi(strings.TrimSpace(nmeaField(line, 3)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// nmeaField returns the idx'th comma-delimited field of a sentence, with
// any trailing checksum stripped. Field 0 is the address field.
func nmeaField(line string, idx int) string {
	if star := strings.IndexByte(line, '*'); star != -1 {
		line = line[:star]
	}
	fields := strings.Split(line, ",")
	if idx < 0 || idx >= len(fields) {
		return ""
	}
	return fields[idx]
}

// applyGGA updates fix quality, HDOP and (when well formed) the current
// position from a GGA sentence. Fix state is updated even when the
// position fields are rejected.
func (s *State) applyGGA(now time.Time, line string) {
	if star := strings.IndexByte(line, '*'); star != -1 {
		line = line[:star]
	}
	f := strings.Split(line, ",")

	// Field 6 is fix quality; any positive value counts as a fix.
	quality := 0
	if len(f) > 6 {
		if q, err := strconv.Atoi(strings.TrimSpace(f[6])); err == nil {
			quality = q
		}
	}
	s.haveFix = quality > 0

	// Field 8 is HDOP, accepted only inside its plausible range.
	if len(f) > 8 {
		if h, err := strconv.ParseFloat(strings.TrimSpace(f[8]), 64); err == nil && h > 0 && h < 100 {
			s.hdop = h
		}
	}

	lat, lon, ok := parsePosition(f)
	if !ok {
		return
	}
	p := nav.Point{LatDeg: lat, LonDeg: lon}
	s.pos = p
	s.posOK = true
	s.updateSpeed(now, p)

	if s.haveFix && s.home == nil {
		h := p
		s.home = &h
		log.Printf("gnss: home established lat=%.6f lon=%.6f", h.LatDeg, h.LonDeg)
	}
}

// parsePosition decodes GGA fields 2..5 (ddmm.mmmmm N/S, dddmm.mmmmm E/W)
// into signed decimal degrees. Short or malformed fields reject the whole
// position.
func parsePosition(f []string) (lat, lon float64, ok bool) {
	if len(f) < 6 {
		return 0, 0, false
	}
	latStr, latHemi := f[2], f[3]
	lonStr, lonHemi := f[4], f[5]
	if len(latStr) < 7 || len(lonStr) < 8 || latHemi == "" || lonHemi == "" {
		return 0, 0, false
	}
	lat, ok = parseCoordinate(latStr, 2)
	if !ok {
		return 0, 0, false
	}
	lon, ok = parseCoordinate(lonStr, 3)
	if !ok {
		return 0, 0, false
	}
	if latHemi[0] == 'S' {
		lat = -lat
	}
	if lonHemi[0] == 'W' {
		lon = -lon
	}
	return lat, lon, true
}

// parseCoordinate converts an NMEA coordinate with a fixed-width degree
// prefix into decimal degrees (deg + minutes/60).
func parseCoordinate(v string, degDigits int) (float64, bool) {
	if len(v) <= degDigits {
		return 0, false
	}
	deg, err := strconv.Atoi(v[:degDigits])
	if err != nil || deg < 0 {
		return 0, false
	}
	min, err := strconv.ParseFloat(v[degDigits:], 64)
	if err != nil || min < 0 {
		return 0, false
	}
	return float64(deg) + min/60.0, true
}

// updateSpeed recomputes speed over ground from consecutive positions. The
// first accepted position only seeds the reference; afterwards speed is
// recomputed whenever at least speedWindow has elapsed since the previous
// computation.
func (s *State) updateSpeed(now time.Time, p nav.Point) {
	if s.speedRefTime.IsZero() {
		s.speedRef = p
		s.speedRefTime = now
		return
	}
	elapsed := now.Sub(s.speedRefTime)
	if elapsed < speedWindow {
		return
	}
	hours := elapsed.Hours()
	if hours > 0 {
		km := nav.Distance(s.speedRef, p) / 1000.0
		s.speedKmh = km / hours
		s.speedOK = true
	}
	s.speedRef = p
	s.speedRefTime = now
}
