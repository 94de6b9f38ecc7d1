package store

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"trailtracker/internal/nav"
)

func TestFirstRunWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker", "waypoints.dat")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	slots, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i, w := range slots {
		if w.Set || w.Name != "" {
			t.Fatalf("slot %d not empty: %+v", i, w)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("defaults not written back: %v", err)
	}
	if len(raw) != fileLen {
		t.Fatalf("file length: got %d want %d", len(raw), fileLen)
	}
	if got := binary.LittleEndian.Uint32(raw[:4]); got != magic {
		t.Fatalf("magic: got %#x want %#x", got, magic)
	}
}

func TestRoundTripRegeneratesNames(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "waypoints.dat"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var in [nav.WaypointSlots]nav.Waypoint
	in[0] = nav.Waypoint{Point: nav.Point{LatDeg: 48.1173, LonDeg: 11.5166}, Set: true, Name: "CUSTOM"}
	in[2] = nav.Waypoint{Point: nav.Point{LatDeg: -33.85, LonDeg: -151.2083}, Set: true, Name: "WP3"}
	if err := s.Save(in); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !out[0].Set || out[0].Point != in[0].Point {
		t.Fatalf("slot 0: got %+v", out[0])
	}
	if out[0].Name != "WP1" {
		t.Fatalf("slot 0 name: got %q want regenerated WP1", out[0].Name)
	}
	if out[1].Set || out[1].Name != "" {
		t.Fatalf("slot 1 should stay unset: %+v", out[1])
	}
	if !out[2].Set || out[2].Point != in[2].Point || out[2].Name != "WP3" {
		t.Fatalf("slot 2: got %+v", out[2])
	}
}

func TestForeignFileResetsToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waypoints.dat")
	if err := os.WriteFile(path, []byte("definitely not a waypoint file, but long enough to read the header"), 0o644); err != nil {
		t.Fatalf("seed foreign: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	slots, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i, w := range slots {
		if w.Set {
			t.Fatalf("slot %d set from foreign file: %+v", i, w)
		}
	}

	// The file was rewritten into the known layout.
	raw, err := os.ReadFile(path)
	if err != nil || len(raw) != fileLen || binary.LittleEndian.Uint32(raw[:4]) != magic {
		t.Fatalf("foreign file not reinitialized: len=%d err=%v", len(raw), err)
	}
}

func TestShortFileResetsToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waypoints.dat")
	if err := os.WriteFile(path, []byte{0xB4, 0xA5, 0x00, 0x00, 0x01}, 0o644); err != nil {
		t.Fatalf("seed short: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	slots, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i, w := range slots {
		if w.Set {
			t.Fatalf("slot %d set from short file: %+v", i, w)
		}
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatal("want error for empty path")
	}
}
