// Package tracker runs the poll engine that owns every piece of device
// state. A single goroutine samples the button, drains the GNSS byte
// stream, and refreshes the display on a fixed tick; nothing else mutates
// state, so no locking is needed anywhere in the core.
package tracker

import (
	"context"
	"fmt"
	"log"
	"time"

	"trailtracker/internal/battery"
	"trailtracker/internal/gnss"
	"trailtracker/internal/input"
	"trailtracker/internal/nav"
	"trailtracker/internal/ui"
	"trailtracker/internal/web"
)

const (
	pollInterval    = 10 * time.Millisecond
	displayInterval = 1000 * time.Millisecond
	bootSplashHold  = 2 * time.Second
)

var (
	nowFn   = time.Now
	sleepFn = time.Sleep
)

// ByteSource hands over whatever input is currently buffered, without
// blocking. The serial port, the walk simulator, and the log replayer all
// satisfy it.
type ByteSource interface {
	ReadAvailable(p []byte) (int, error)
}

// Options carries the engine collaborators. Source and Controller are
// required; everything else degrades to "feature absent" when nil.
type Options struct {
	Source     ByteSource
	SourceName string
	Controller *ui.Controller
	Bank       *nav.Bank
	Button     input.LevelReader
	ADC        battery.ADC
	Status     *web.Status
}

type Engine struct {
	src     ByteSource
	srcName string
	ctrl    *ui.Controller
	bank    *nav.Bank
	level   input.LevelReader
	button  *input.Button
	adc     battery.ADC
	est     battery.Estimator
	status  *web.Status

	gnss *gnss.State
	lb   gnss.LineBuffer

	batteryPct int
	charging   bool

	lastDisplay time.Time

	srcErrLogged bool
	btnErrLogged bool
	adcErrLogged bool

	readBuf [512]byte
}

func NewEngine(opts Options) (*Engine, error) {
	if opts.Source == nil {
		return nil, fmt.Errorf("tracker: source is nil")
	}
	if opts.Controller == nil {
		return nil, fmt.Errorf("tracker: controller is nil")
	}
	return &Engine{
		src:        opts.Source,
		srcName:    opts.SourceName,
		ctrl:       opts.Controller,
		bank:       opts.Bank,
		level:      opts.Button,
		button:     input.NewButton(),
		adc:        opts.ADC,
		status:     opts.Status,
		gnss:       gnss.NewState(),
		batteryPct: 100,
	}, nil
}

// Run shows the boot banner, then drives the poll loop until ctx is
// cancelled. Sleep entry inside a short-press handler blocks the loop on
// purpose; the cycle after wake resumes at the top.
func (e *Engine) Run(ctx context.Context) error {
	e.ctrl.BootSplash()
	sleepFn(bootSplashHold)
	log.Printf("tracker: engine running source=%s", e.srcName)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.step(nowFn())
		}
	}
}

// step is one poll cycle: button first so a press acts on the state the
// user saw, then the stream drain, then the once-per-second display tick.
func (e *Engine) step(now time.Time) {
	e.pollButton(now)
	e.drain(now)
	if e.lastDisplay.IsZero() || now.Sub(e.lastDisplay) >= displayInterval {
		e.lastDisplay = now
		e.tick(now)
	}
}

func (e *Engine) pollButton(now time.Time) {
	if e.level == nil {
		return
	}
	level, err := e.level.Level()
	if err != nil {
		if !e.btnErrLogged {
			log.Printf("tracker: button read: %v", err)
			e.btnErrLogged = true
		}
		return
	}
	e.btnErrLogged = false

	switch e.button.Poll(now, level) {
	case input.ShortPress:
		e.ctrl.HandleShortPress(e.fix())
	case input.LongPress:
		e.ctrl.HandleLongPress()
	}
}

// drain consumes every byte the source currently has buffered.
// ReadAvailable never blocks, so the loop ends as soon as it runs dry.
func (e *Engine) drain(now time.Time) {
	for {
		n, err := e.src.ReadAvailable(e.readBuf[:])
		if err != nil {
			if !e.srcErrLogged {
				log.Printf("tracker: read %s: %v", e.srcName, err)
				e.srcErrLogged = true
			}
			return
		}
		if n == 0 {
			return
		}
		e.srcErrLogged = false
		for _, b := range e.readBuf[:n] {
			if line, ok := e.lb.Feed(b); ok {
				e.gnss.ProcessLine(now, line)
			}
		}
	}
}

func (e *Engine) tick(now time.Time) {
	snap := e.gnss.Snapshot()

	if e.adc != nil {
		counts, ref, err := e.adc.Read()
		if err != nil {
			if !e.adcErrLogged {
				log.Printf("tracker: battery read: %v", err)
				e.adcErrLogged = true
			}
		} else {
			e.adcErrLogged = false
			v := battery.Calibrated(counts, ref)
			e.batteryPct = e.est.StablePercent(v)
			e.charging = e.est.Charging(now, v)
		}
	}

	e.ctrl.Render(ui.View{
		HaveFix:     snap.HaveFix,
		TotalInView: snap.TotalInView,
		HDOP:        snap.HDOP,
		HasPosition: snap.HasPosition,
		Position:    snap.Position,
		HomeSet:     snap.HomeSet,
		Home:        snap.Home,
		SpeedValid:  snap.SpeedValid,
		SpeedKmh:    snap.SpeedKmh,
		BatteryPct:  e.batteryPct,
	})

	if e.status != nil {
		e.status.Publish(e.webSnapshot(snap))
	}
}

func (e *Engine) fix() ui.Fix {
	snap := e.gnss.Snapshot()
	return ui.Fix{
		HaveFix:     snap.HaveFix,
		HasPosition: snap.HasPosition,
		Position:    snap.Position,
	}
}

func (e *Engine) webSnapshot(snap gnss.Snapshot) web.Snapshot {
	out := web.Snapshot{
		Source:         e.srcName,
		HaveFix:        snap.HaveFix,
		SatsInView:     snap.TotalInView,
		HomeSet:        snap.HomeSet,
		BatteryPct:     e.batteryPct,
		Charging:       e.charging,
		Screen:         e.ctrl.Screen().String(),
		ActiveWaypoint: e.ctrl.ActiveWaypoint(),
	}
	if snap.HaveFix && snap.HDOP > 0 && snap.HDOP < 100 {
		out.HDOP = ptr(snap.HDOP)
	}
	if snap.HasPosition {
		out.LatDeg = ptr(snap.Position.LatDeg)
		out.LonDeg = ptr(snap.Position.LonDeg)
	}
	if snap.SpeedValid {
		out.SpeedKmh = ptr(snap.SpeedKmh)
	}
	if snap.HomeSet && snap.HasPosition {
		out.HomeDistanceM = ptr(nav.Distance(snap.Position, snap.Home))
	}
	if e.bank != nil {
		wps := e.bank.All()
		out.Waypoints = make([]web.WaypointStatus, len(wps))
		for i, wp := range wps {
			ws := web.WaypointStatus{Set: wp.Set, Name: wp.Name}
			if wp.Set {
				ws.LatDeg = ptr(wp.LatDeg)
				ws.LonDeg = ptr(wp.LonDeg)
				if snap.HasPosition {
					ws.DistanceM = ptr(nav.Distance(snap.Position, wp.Point))
				}
			}
			out.Waypoints[i] = ws
		}
	}
	return out
}

func ptr(v float64) *float64 { return &v }
