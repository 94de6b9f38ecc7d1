// Package store persists the waypoint slots in a small fixed-layout file:
// a 4-byte magic header followed by one 20-byte record per slot (8-byte
// latitude, 8-byte longitude, 1-byte set flag, 3 bytes of padding), all
// little-endian.
package store

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"

	"trailtracker/internal/nav"
)

// magic marks a file written by this layout.
const magic uint32 = 0xA5B4

const (
	headerLen = 4
	recordLen = 20
	fileLen   = headerLen + nav.WaypointSlots*recordLen
)

// Store reads and writes the waypoint file at a fixed path.
type Store struct {
	path string
}

// Open prepares a store at path, creating parent directories as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store: empty path")
	}
	if dir := filepath.Dir(path); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create %s: %w", dir, err)
		}
	}
	return &Store{path: path}, nil
}

// Load reads all slots. A missing, short or foreign file counts as first
// run: empty defaults are written back and returned. Display names are
// regenerated for set slots; they are never persisted.
func (s *Store) Load() ([nav.WaypointSlots]nav.Waypoint, error) {
	var slots [nav.WaypointSlots]nav.Waypoint

	raw, err := os.ReadFile(s.path)
	if err != nil && !os.IsNotExist(err) {
		return slots, fmt.Errorf("store: read %s: %w", s.path, err)
	}
	if err == nil && len(raw) >= fileLen && binary.LittleEndian.Uint32(raw[:headerLen]) == magic {
		for i := range slots {
			rec := raw[headerLen+i*recordLen:]
			if rec[16] == 0 {
				continue
			}
			slots[i] = nav.Waypoint{
				Point: nav.Point{
					LatDeg: math.Float64frombits(binary.LittleEndian.Uint64(rec[0:8])),
					LonDeg: math.Float64frombits(binary.LittleEndian.Uint64(rec[8:16])),
				},
				Set:  true,
				Name: fmt.Sprintf("WP%d", i+1),
			}
		}
		return slots, nil
	}

	// First run, or content we do not recognize: establish the empty layout
	// so every later save is a plain overwrite.
	log.Printf("store: initializing waypoint file path=%s", s.path)
	if err := s.Save(slots); err != nil {
		return slots, err
	}
	return slots, nil
}

// Save writes all slots in the fixed layout.
func (s *Store) Save(slots [nav.WaypointSlots]nav.Waypoint) error {
	buf := make([]byte, fileLen)
	binary.LittleEndian.PutUint32(buf[:headerLen], magic)
	for i, w := range slots {
		rec := buf[headerLen+i*recordLen:]
		binary.LittleEndian.PutUint64(rec[0:8], math.Float64bits(w.LatDeg))
		binary.LittleEndian.PutUint64(rec[8:16], math.Float64bits(w.LonDeg))
		if w.Set {
			rec[16] = 1
		}
	}
	if err := os.WriteFile(s.path, buf, 0o644); err != nil {
		return fmt.Errorf("store: write %s: %w", s.path, err)
	}
	return nil
}
