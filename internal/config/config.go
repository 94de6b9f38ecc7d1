package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GNSS      GNSSConfig      `yaml:"gnss"`
	Sim       SimConfig       `yaml:"sim"`
	Replay    ReplayConfig    `yaml:"replay"`
	Display   DisplayConfig   `yaml:"display"`
	Button    ButtonConfig    `yaml:"button"`
	Battery   BatteryConfig   `yaml:"battery"`
	Power     PowerConfig     `yaml:"power"`
	Waypoints WaypointsConfig `yaml:"waypoints"`
	Web       WebConfig       `yaml:"web"`
}

type GNSSConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

type SimConfig struct {
	Enable       bool          `yaml:"enable"`
	CenterLatDeg float64       `yaml:"center_lat_deg"`
	CenterLonDeg float64       `yaml:"center_lon_deg"`
	RadiusM      float64       `yaml:"radius_m"`
	Period       time.Duration `yaml:"period"`
	Warmup       time.Duration `yaml:"warmup"`
}

type ReplayConfig struct {
	Enable bool    `yaml:"enable"`
	Path   string  `yaml:"path"`
	Speed  float64 `yaml:"speed"`
	Loop   bool    `yaml:"loop"`
}

type DisplayConfig struct {
	Enable bool   `yaml:"enable"`
	I2CBus string `yaml:"i2c_bus"`
}

type ButtonConfig struct {
	Enable bool   `yaml:"enable"`
	Line   string `yaml:"line"`
}

type BatteryConfig struct {
	Enable bool   `yaml:"enable"`
	I2CBus string `yaml:"i2c_bus"`
}

type PowerConfig struct {
	GNSSRail  string `yaml:"gnss_rail"`
	Backlight string `yaml:"backlight"`
}

type WaypointsConfig struct {
	Path string `yaml:"path"`
}

type WebConfig struct {
	Listen string `yaml:"listen"`
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := DefaultAndValidate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultAndValidate is applied by Load and again by anything that edits a
// Config by hand.
func DefaultAndValidate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if cfg.GNSS.Device == "" {
		cfg.GNSS.Device = "/dev/ttyAMA0"
	}
	if cfg.GNSS.Baud <= 0 {
		cfg.GNSS.Baud = 9600
	}

	if cfg.Sim.Enable && cfg.Replay.Enable {
		return fmt.Errorf("sim and replay cannot both be enabled")
	}

	// Walk simulator defaults (safe even if disabled).
	if cfg.Sim.CenterLatDeg == 0 && cfg.Sim.CenterLonDeg == 0 {
		cfg.Sim.CenterLatDeg = 48.1374
		cfg.Sim.CenterLonDeg = 11.5755
	}
	if cfg.Sim.RadiusM <= 0 {
		cfg.Sim.RadiusM = 120
	}
	if cfg.Sim.Period <= 0 {
		cfg.Sim.Period = 6 * time.Minute
	}
	if cfg.Sim.Warmup <= 0 {
		cfg.Sim.Warmup = 10 * time.Second
	}

	if cfg.Replay.Enable {
		if cfg.Replay.Path == "" {
			return fmt.Errorf("replay.path is required when replay.enable is true")
		}
		if cfg.Replay.Speed == 0 {
			cfg.Replay.Speed = 1
		}
		if cfg.Replay.Speed < 0 {
			return fmt.Errorf("replay.speed must be > 0")
		}
	}

	if cfg.Button.Enable && cfg.Button.Line == "" {
		return fmt.Errorf("button.line is required when button.enable is true")
	}

	if cfg.Waypoints.Path == "" {
		cfg.Waypoints.Path = "/var/lib/trailtracker/waypoints.dat"
	}

	return nil
}
