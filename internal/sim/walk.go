// Package sim generates a deterministic NMEA stream without hardware: a
// pedestrian figure-eight around a center point, emitted once per second
// as a burst of five GSV sentences and one GNGGA, with checksums.
//
// The first seconds are a no-fix warm-up (quality 0, no position) so
// downstream fix and home-latch behavior can be exercised end to end.
package sim

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// meters per degree of latitude.
const mPerDeg = 111195.0

var nowFn = time.Now

// Walk emits a plausible receiver stream along a figure-eight path.
// Zero-value fields fall back to usable defaults.
type Walk struct {
	CenterLat float64
	CenterLon float64
	RadiusM   float64       // path extent, default 120 m
	Period    time.Duration // one full figure, default 6 min
	Warmup    time.Duration // no-fix lead-in, default 10 s

	start time.Time
	last  time.Time
	tick  int
	buf   []byte
}

func NewWalk(centerLat, centerLon float64) *Walk {
	return &Walk{CenterLat: centerLat, CenterLon: centerLon}
}

// ReadAvailable returns whatever part of the stream is due, never
// blocking. One burst becomes due every second.
func (w *Walk) ReadAvailable(p []byte) (int, error) {
	now := nowFn()
	if w.start.IsZero() {
		w.start = now
		w.last = now.Add(-time.Second) // first burst is due immediately
	}
	for now.Sub(w.last) >= time.Second {
		w.last = w.last.Add(time.Second)
		w.buf = append(w.buf, w.burst(w.last.Sub(w.start))...)
		w.tick++
	}
	n := copy(p, w.buf)
	w.buf = append(w.buf[:0], w.buf[n:]...)
	return n, nil
}

func (w *Walk) burst(elapsed time.Duration) []byte {
	warmup := w.Warmup
	if warmup <= 0 {
		warmup = 10 * time.Second
	}
	counts := w.satCounts(elapsed < warmup)
	total := 0
	for _, c := range counts {
		total += c
	}

	var b strings.Builder
	talkers := [5]string{"GP", "GL", "GB", "GA", "GQ"}
	for i, talker := range talkers {
		svid := 1 + (w.tick+i*7)%32
		az := (w.tick*13 + i*40) % 360
		snr := 30 + (w.tick+i)%15
		b.WriteString(sentence(fmt.Sprintf("%sGSV,1,1,%02d,%02d,45,%03d,%02d",
			talker, counts[i], svid, az, snr)))
	}

	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Add(elapsed).Format("150405.00")
	if elapsed < warmup {
		b.WriteString(sentence(fmt.Sprintf("GNGGA,%s,,,,,0,%02d,99.99,,M,,M,,", ts, total)))
	} else {
		lat, latH := nmeaLat(w.lat(elapsed))
		lon, lonH := nmeaLon(w.lon(elapsed))
		hdop := 0.9 + 0.3*float64(w.tick%4)
		b.WriteString(sentence(fmt.Sprintf("GNGGA,%s,%s,%s,%s,%s,1,%02d,%.2f,512.0,M,47.0,M,,",
			ts, lat, latH, lon, lonH, total, hdop)))
	}
	return []byte(b.String())
}

func (w *Walk) satCounts(warmup bool) [5]int {
	if warmup {
		return [5]int{3, 2, 0, 0, 0}
	}
	return [5]int{
		8 + (w.tick>>3)&3,
		6 + (w.tick>>4)&1,
		5,
		4 + (w.tick>>5)&1,
		0,
	}
}

func (w *Walk) lat(elapsed time.Duration) float64 {
	_, y := w.figure(elapsed)
	return w.CenterLat + w.radiusDeg()*y
}

func (w *Walk) lon(elapsed time.Duration) float64 {
	x, _ := w.figure(elapsed)
	return w.CenterLon + w.radiusDeg()*x/math.Cos(w.CenterLat*math.Pi/180.0)
}

// figure is a Lissajous figure-eight in unit coordinates; y stays within
// [-0.5, 0.5] so the path fits the configured radius.
func (w *Walk) figure(elapsed time.Duration) (x, y float64) {
	period := w.Period
	if period <= 0 {
		period = 6 * time.Minute
	}
	phase := float64(elapsed%period) / float64(period)
	omega := 2 * math.Pi * phase
	return math.Cos(omega), 0.5 * math.Sin(2*omega)
}

func (w *Walk) radiusDeg() float64 {
	radius := w.RadiusM
	if radius <= 0 {
		radius = 120
	}
	return radius / mPerDeg
}

func nmeaLat(lat float64) (string, string) {
	hemi := "N"
	if lat < 0 {
		hemi = "S"
		lat = -lat
	}
	deg := int(lat)
	min := (lat - float64(deg)) * 60
	return fmt.Sprintf("%02d%08.5f", deg, min), hemi
}

func nmeaLon(lon float64) (string, string) {
	hemi := "E"
	if lon < 0 {
		hemi = "W"
		lon = -lon
	}
	deg := int(lon)
	min := (lon - float64(deg)) * 60
	return fmt.Sprintf("%03d%08.5f", deg, min), hemi
}

// sentence frames a body with the leading '$', the XOR checksum, and the
// CRLF terminator.
func sentence(body string) string {
	var cs byte
	for i := 0; i < len(body); i++ {
		cs ^= body[i]
	}
	return fmt.Sprintf("$%s*%02X\r\n", body, cs)
}
