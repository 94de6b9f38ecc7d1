// Package replay plays a recorded NMEA capture through the byte-source
// contract, pacing emission by the GGA timestamps embedded in the log.
//
// Log format: line-oriented text. Blank lines and lines starting with
// '#' are ignored; every other line is replayed verbatim (re-terminated
// with CRLF). Lines between two GGA sentences are released together with
// the GGA burst they follow.
package replay

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/adrianmo/go-nmea"
)

var nowFn = time.Now

type record struct {
	at   time.Duration
	line []byte
}

// Source releases the capture's lines as their timestamps come due.
type Source struct {
	records []record
	speed   float64
	loop    bool
	cycle   time.Duration

	start    time.Time
	idx      int
	buf      []byte
	finished bool
}

// Load parses a capture. speed scales playback (2 = twice as fast); loop
// restarts the capture when it runs out.
func Load(path string, speed float64, loop bool) (*Source, error) {
	if speed <= 0 {
		return nil, fmt.Errorf("replay: speed must be > 0, got %g", speed)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("replay: open log: %w", err)
	}
	defer f.Close()

	var (
		records []record
		at      time.Duration
		origin  time.Duration = -1
	)
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if ts, ok := ggaTimestamp(line); ok {
			if origin < 0 {
				origin = ts
			}
			// Midnight wrap or out-of-order capture: hold the clock
			// rather than jumping backwards.
			if rel := ts - origin; rel >= at {
				at = rel
			}
		}
		records = append(records, record{at: at, line: []byte(line + "\r\n")})
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("replay: read log: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("replay: log %s has no sentences", path)
	}

	return &Source{
		records: records,
		speed:   speed,
		loop:    loop,
		cycle:   records[len(records)-1].at + time.Second,
	}, nil
}

// ggaTimestamp extracts the time-of-day from a GGA sentence of any
// talker. Unparseable lines pace nothing and are replayed as-is.
func ggaTimestamp(line string) (time.Duration, bool) {
	parsed, err := nmea.Parse(line)
	if err != nil {
		return 0, false
	}
	gga, ok := parsed.(nmea.GGA)
	if !ok || !gga.Time.Valid {
		return 0, false
	}
	d := time.Duration(gga.Time.Hour)*time.Hour +
		time.Duration(gga.Time.Minute)*time.Minute +
		time.Duration(gga.Time.Second)*time.Second +
		time.Duration(gga.Time.Millisecond)*time.Millisecond
	return d, true
}

// ReadAvailable returns the lines that have come due, never blocking.
// After a finished non-looping capture it keeps returning 0 bytes.
func (s *Source) ReadAvailable(p []byte) (int, error) {
	now := nowFn()
	if s.start.IsZero() {
		s.start = now
	}
	elapsed := time.Duration(float64(now.Sub(s.start)) * s.speed)
	for s.idx < len(s.records) && s.records[s.idx].at <= elapsed {
		s.buf = append(s.buf, s.records[s.idx].line...)
		s.idx++
	}
	if s.idx >= len(s.records) && len(s.buf) == 0 {
		if s.loop {
			s.start = s.start.Add(time.Duration(float64(s.cycle) / s.speed))
			s.idx = 0
		} else if !s.finished {
			s.finished = true
			log.Printf("replay: capture finished")
		}
	}
	n := copy(p, s.buf)
	s.buf = append(s.buf[:0], s.buf[n:]...)
	return n, nil
}
