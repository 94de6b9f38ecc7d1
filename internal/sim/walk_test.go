package sim

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"trailtracker/internal/gnss"
	"trailtracker/internal/nav"
)

func fakeClock(t *testing.T, start time.Time) *time.Time {
	t.Helper()
	now := start
	orig := nowFn
	nowFn = func() time.Time { return now }
	t.Cleanup(func() { nowFn = orig })
	return &now
}

// checkSentence verifies framing and checksum of one emitted line.
func checkSentence(t *testing.T, line string) {
	t.Helper()
	if !strings.HasPrefix(line, "$") {
		t.Fatalf("line %q does not start with $", line)
	}
	star := strings.LastIndexByte(line, '*')
	if star < 0 || len(line)-star != 3 {
		t.Fatalf("line %q has no two-digit checksum", line)
	}
	var cs byte
	for i := 1; i < star; i++ {
		cs ^= line[i]
	}
	if want := fmt.Sprintf("%02X", cs); line[star+1:] != want {
		t.Fatalf("line %q checksum = %s, want %s", line, line[star+1:], want)
	}
}

func readLines(t *testing.T, w *Walk) []string {
	t.Helper()
	buf := make([]byte, 8192)
	n, err := w.ReadAvailable(buf)
	if err != nil {
		t.Fatalf("ReadAvailable: %v", err)
	}
	var lines []string
	for _, ln := range strings.Split(string(buf[:n]), "\r\n") {
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}

func feedState(st *gnss.State, lb *gnss.LineBuffer, data []byte, now time.Time) int {
	lines := 0
	for _, c := range data {
		if line, ok := lb.Feed(c); ok {
			st.ProcessLine(now, line)
			lines++
		}
	}
	return lines
}

func TestWalkWarmupBurst(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fakeClock(t, base)
	w := NewWalk(48.1374, 11.5755)
	w.Warmup = 2 * time.Second

	lines := readLines(t, w)
	if len(lines) != 6 {
		t.Fatalf("burst = %d lines, want 6", len(lines))
	}
	for _, ln := range lines {
		checkSentence(t, ln)
	}
	gga := lines[5]
	if !strings.HasPrefix(gga, "$GNGGA,") {
		t.Fatalf("last line = %q, want GNGGA", gga)
	}
	if fields := strings.Split(gga, ","); fields[6] != "0" {
		t.Fatalf("warmup fix quality = %q, want 0", fields[6])
	}
}

func TestWalkStreamDrivesDecoder(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := fakeClock(t, base)
	center := nav.Point{LatDeg: 48.1374, LonDeg: 11.5755}
	w := NewWalk(center.LatDeg, center.LonDeg)
	w.Warmup = 2 * time.Second

	st := gnss.NewState()
	var lb gnss.LineBuffer
	buf := make([]byte, 8192)

	n, err := w.ReadAvailable(buf)
	if err != nil {
		t.Fatalf("ReadAvailable: %v", err)
	}
	if got := feedState(st, &lb, buf[:n], *clock); got != 6 {
		t.Fatalf("warmup burst dispatched %d lines, want 6", got)
	}
	snap := st.Snapshot()
	if snap.HaveFix {
		t.Fatalf("fix during warmup")
	}
	if snap.HasPosition {
		t.Fatalf("position during warmup")
	}
	if snap.TotalInView != 5 {
		t.Fatalf("warmup sats = %d, want 5", snap.TotalInView)
	}

	// Step past the warmup; one burst becomes due per elapsed second.
	*clock = clock.Add(5 * time.Second)
	n, err = w.ReadAvailable(buf)
	if err != nil {
		t.Fatalf("ReadAvailable: %v", err)
	}
	feedState(st, &lb, buf[:n], *clock)

	snap = st.Snapshot()
	if !snap.HaveFix {
		t.Fatalf("no fix after warmup")
	}
	if !snap.HasPosition {
		t.Fatalf("no position after warmup")
	}
	if !snap.HomeSet {
		t.Fatalf("home not latched after first fix")
	}
	if d := nav.Distance(snap.Position, center); d > 200 {
		t.Fatalf("position %+v is %.0f m from the center", snap.Position, d)
	}
	if snap.TotalInView < 20 {
		t.Fatalf("sats in view = %d, want a full sky", snap.TotalInView)
	}
}

func TestWalkPacing(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	clock := fakeClock(t, base)
	w := NewWalk(0, 0)
	buf := make([]byte, 4096)

	if n, _ := w.ReadAvailable(buf); n == 0 {
		t.Fatalf("first read emitted nothing")
	}
	if n, _ := w.ReadAvailable(buf); n != 0 {
		t.Fatalf("read within the same second emitted %d bytes", n)
	}
	*clock = clock.Add(900 * time.Millisecond)
	if n, _ := w.ReadAvailable(buf); n != 0 {
		t.Fatalf("burst due 100ms early")
	}
	*clock = clock.Add(100 * time.Millisecond)
	if n, _ := w.ReadAvailable(buf); n == 0 {
		t.Fatalf("burst not due at the full second")
	}
}

func TestWalkDrainsAcrossShortReads(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	fakeClock(t, base)
	w := NewWalk(0, 0)

	var got []byte
	small := make([]byte, 7)
	for i := 0; i < 200; i++ {
		n, err := w.ReadAvailable(small)
		if err != nil {
			t.Fatalf("ReadAvailable: %v", err)
		}
		if n == 0 {
			break
		}
		got = append(got, small[:n]...)
	}
	if !strings.HasSuffix(string(got), "\r\n") {
		t.Fatalf("drained stream does not end on a line boundary")
	}
	if c := strings.Count(string(got), "$"); c != 6 {
		t.Fatalf("drained %d sentences, want 6", c)
	}
}
