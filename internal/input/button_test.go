package input

import (
	"testing"
	"time"
)

var base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return base.Add(time.Duration(ms) * time.Millisecond)
}

func TestShortPress(t *testing.T) {
	b := NewButton()
	if ev := b.Poll(at(0), true); ev != None {
		t.Fatalf("released idle: got %v", ev)
	}
	if ev := b.Poll(at(10), false); ev != None {
		t.Fatalf("press edge: got %v", ev)
	}
	if ev := b.Poll(at(60), false); ev != None {
		t.Fatalf("held 50ms: got %v", ev)
	}
	if ev := b.Poll(at(110), true); ev != ShortPress {
		t.Fatalf("release at 100ms: got %v want short", ev)
	}
	if ev := b.Poll(at(120), true); ev != None {
		t.Fatalf("idle after release: got %v", ev)
	}
}

func TestLongPressFiresOnceWhileHeld(t *testing.T) {
	b := NewButton()
	b.Poll(at(0), false)
	if ev := b.Poll(at(500), false); ev != None {
		t.Fatalf("held 500ms: got %v", ev)
	}
	if ev := b.Poll(at(1001), false); ev != LongPress {
		t.Fatalf("held past 1000ms: got %v want long", ev)
	}
	if ev := b.Poll(at(1500), false); ev != None {
		t.Fatalf("long press fired twice: got %v", ev)
	}
	// The release after a long press is silent.
	if ev := b.Poll(at(1600), true); ev != None {
		t.Fatalf("release after long: got %v", ev)
	}
}

func TestExactThresholdIsNotLong(t *testing.T) {
	b := NewButton()
	b.Poll(at(0), false)
	if ev := b.Poll(at(1000), false); ev != None {
		t.Fatalf("held exactly 1000ms: got %v", ev)
	}
	// Released at exactly the threshold: neither short nor long.
	if ev := b.Poll(at(1000), true); ev != None {
		t.Fatalf("release at exactly 1000ms: got %v", ev)
	}
}

func TestDebounceRejectsQuickRepress(t *testing.T) {
	b := NewButton()
	b.Poll(at(0), false)
	if ev := b.Poll(at(100), true); ev != ShortPress {
		t.Fatal("setup short press failed")
	}

	// 150ms after the release: the edge is ignored entirely.
	b.Poll(at(250), false)
	if ev := b.Poll(at(1500), false); ev != None {
		t.Fatalf("rejected press produced a long event: got %v", ev)
	}
	if ev := b.Poll(at(1550), true); ev != None {
		t.Fatalf("rejected press produced a release event: got %v", ev)
	}

	// Well past the interval the button works again.
	b.Poll(at(3000), false)
	if ev := b.Poll(at(3100), true); ev != ShortPress {
		t.Fatalf("press after debounce: got %v want short", ev)
	}

	// Exactly the debounce interval after that release is still too soon.
	b.Poll(at(3300), false)
	if ev := b.Poll(at(3400), true); ev != None {
		t.Fatalf("press at exact debounce accepted: got %v", ev)
	}

	b.Poll(at(3700), false)
	if ev := b.Poll(at(3800), true); ev != ShortPress {
		t.Fatalf("press one past debounce: got %v want short", ev)
	}
}

func TestPressHeldAtBoot(t *testing.T) {
	b := NewButton()
	// First ever sample is already pressed: accepted, since there was no
	// prior release to debounce against.
	if ev := b.Poll(at(0), false); ev != None {
		t.Fatalf("boot press edge: got %v", ev)
	}
	if ev := b.Poll(at(1100), false); ev != LongPress {
		t.Fatalf("boot hold: got %v want long", ev)
	}
}

func TestPressAfterLongReleaseIsNotDebounced(t *testing.T) {
	b := NewButton()
	b.Poll(at(0), false)
	if ev := b.Poll(at(1100), false); ev != LongPress {
		t.Fatal("setup long press failed")
	}
	b.Poll(at(1200), true)

	// The debounce anchor tracks short-press releases only, so a press
	// right after a long-press release is accepted.
	b.Poll(at(1250), false)
	if ev := b.Poll(at(1350), true); ev != ShortPress {
		t.Fatalf("press after long release: got %v want short", ev)
	}
}
