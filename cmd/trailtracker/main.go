package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"trailtracker/internal/battery"
	"trailtracker/internal/config"
	"trailtracker/internal/display"
	"trailtracker/internal/input"
	"trailtracker/internal/nav"
	"trailtracker/internal/power"
	"trailtracker/internal/replay"
	"trailtracker/internal/serial"
	"trailtracker/internal/sim"
	"trailtracker/internal/store"
	"trailtracker/internal/tracker"
	"trailtracker/internal/ui"
	"trailtracker/internal/web"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./dev.yaml", "Path to YAML config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("trailtracker starting")

	// Rails first: the receiver and the panel need power before their
	// buses are opened.
	for _, rail := range []struct {
		name      string
		line      string
		activeLow bool
	}{
		{"gnss", cfg.Power.GNSSRail, true},
		{"backlight", cfg.Power.Backlight, false},
	} {
		if rail.line == "" {
			continue
		}
		r, err := power.OpenRail(rail.line, rail.activeLow)
		if err != nil {
			log.Printf("%s rail init failed: %v", rail.name, err)
			continue
		}
		defer r.Close()
		log.Printf("%s rail powered line=%s", rail.name, rail.line)
	}

	// Waypoints. A store failure degrades to a RAM-only bank.
	var saver nav.Saver
	st, err := store.Open(cfg.Waypoints.Path)
	if err != nil {
		log.Printf("waypoint store open failed: %v", err)
	} else {
		saver = st
	}
	bank := nav.NewBank(saver)
	if st != nil {
		slots, err := st.Load()
		if err != nil {
			log.Printf("waypoint load failed: %v", err)
		} else {
			bank.Restore(slots)
		}
	}

	src, srcName, err := openSource(cfg)
	if err != nil {
		log.Fatalf("%s source init failed: %v", srcName, err)
	}
	if c, ok := src.(io.Closer); ok {
		defer c.Close()
	}
	log.Printf("gnss source=%s", srcName)

	// I2C peripherals. Any failure here leaves the tracker headless (or
	// without battery readings) but running.
	buses := map[string]i2c.BusCloser{}
	defer func() {
		for _, b := range buses {
			_ = b.Close()
		}
	}()
	openBus := func(name string) i2c.Bus {
		if b, ok := buses[name]; ok {
			return b
		}
		b, err := i2creg.Open(name)
		if err != nil {
			log.Printf("i2c open failed bus=%q: %v", name, err)
			return nil
		}
		buses[name] = b
		return b
	}

	var disp ui.Display = display.Nop{}
	var adc battery.ADC
	if cfg.Display.Enable || cfg.Battery.Enable {
		if _, err := host.Init(); err != nil {
			log.Printf("periph host init failed: %v", err)
		} else {
			if cfg.Display.Enable {
				if bus := openBus(cfg.Display.I2CBus); bus != nil {
					oled, err := display.NewOLED(bus)
					if err != nil {
						log.Printf("display init failed: %v", err)
					} else {
						disp = oled
						defer oled.Halt()
						log.Printf("display ready")
					}
				}
			}
			if cfg.Battery.Enable {
				if bus := openBus(cfg.Battery.I2CBus); bus != nil {
					a, err := battery.NewADS1115(bus)
					if err != nil {
						log.Printf("battery adc init failed: %v", err)
					} else {
						adc = a
						log.Printf("battery adc ready")
					}
				}
			}
		}
	}

	var level input.LevelReader
	if cfg.Button.Enable {
		btn, err := input.OpenButton(cfg.Button.Line)
		if err != nil {
			log.Printf("button init failed: %v", err)
		} else {
			level = btn
			defer btn.Close()
			log.Printf("button ready line=%s", cfg.Button.Line)
		}
	}

	ctrl := ui.NewController(disp, power.NewManager(), bank)

	var status *web.Status
	if cfg.Web.Listen != "" {
		status = web.NewStatus()
		go func() {
			log.Printf("web listening addr=%s", cfg.Web.Listen)
			if err := web.Serve(ctx, cfg.Web.Listen, status); err != nil && ctx.Err() == nil {
				log.Printf("web server stopped: %v", err)
			}
		}()
	}

	eng, err := tracker.NewEngine(tracker.Options{
		Source:     src,
		SourceName: srcName,
		Controller: ctrl,
		Bank:       bank,
		Button:     level,
		ADC:        adc,
		Status:     status,
	})
	if err != nil {
		log.Fatalf("engine init failed: %v", err)
	}

	if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("engine stopped: %v", err)
	}
	log.Printf("trailtracker stopping")
}

// openSource picks the configured byte stream: the walk simulator, a
// recorded capture, or the real receiver on the serial port.
func openSource(cfg config.Config) (tracker.ByteSource, string, error) {
	switch {
	case cfg.Sim.Enable:
		w := sim.NewWalk(cfg.Sim.CenterLatDeg, cfg.Sim.CenterLonDeg)
		w.RadiusM = cfg.Sim.RadiusM
		w.Period = cfg.Sim.Period
		w.Warmup = cfg.Sim.Warmup
		return w, "sim", nil
	case cfg.Replay.Enable:
		src, err := replay.Load(cfg.Replay.Path, cfg.Replay.Speed, cfg.Replay.Loop)
		if err != nil {
			return nil, "replay", err
		}
		return src, "replay", nil
	default:
		port, err := serial.Open(cfg.GNSS.Device, cfg.GNSS.Baud)
		if err != nil {
			return nil, "serial", err
		}
		return port, "serial", nil
	}
}
