package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "{}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.GNSS.Device != "/dev/ttyAMA0" {
		t.Fatalf("gnss.device=%q want /dev/ttyAMA0", cfg.GNSS.Device)
	}
	if cfg.GNSS.Baud != 9600 {
		t.Fatalf("gnss.baud=%d want 9600", cfg.GNSS.Baud)
	}
	if cfg.Waypoints.Path != "/var/lib/trailtracker/waypoints.dat" {
		t.Fatalf("waypoints.path=%q", cfg.Waypoints.Path)
	}

	// Simulator defaults should be populated even if sim is absent.
	if cfg.Sim.CenterLatDeg == 0 || cfg.Sim.CenterLonDeg == 0 {
		t.Fatalf("expected sim center defaults applied")
	}
	if cfg.Sim.RadiusM != 120 || cfg.Sim.Period != 6*time.Minute || cfg.Sim.Warmup != 10*time.Second {
		t.Fatalf("sim defaults=%v/%s/%s", cfg.Sim.RadiusM, cfg.Sim.Period, cfg.Sim.Warmup)
	}

	// Optional surfaces stay off unless configured.
	if cfg.Display.Enable || cfg.Button.Enable || cfg.Battery.Enable {
		t.Fatalf("hardware surfaces enabled by default")
	}
	if cfg.Web.Listen != "" {
		t.Fatalf("web.listen=%q want empty", cfg.Web.Listen)
	}
}

func TestLoad_ParsesDurationsAndLines(t *testing.T) {
	body := "sim:\n  enable: true\n  center_lat_deg: 47.5\n  center_lon_deg: 9.7\n  period: 90s\n  warmup: 3s\n" +
		"button:\n  enable: true\n  line: GPIO17\n" +
		"power:\n  gnss_rail: GPIO5\n  backlight: GPIO6\n" +
		"web:\n  listen: ':8080'\n"
	path := writeTempConfig(t, body)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Sim.Period != 90*time.Second || cfg.Sim.Warmup != 3*time.Second {
		t.Fatalf("sim timing=%s/%s", cfg.Sim.Period, cfg.Sim.Warmup)
	}
	if cfg.Sim.CenterLatDeg != 47.5 || cfg.Sim.CenterLonDeg != 9.7 {
		t.Fatalf("sim center=%v/%v", cfg.Sim.CenterLatDeg, cfg.Sim.CenterLonDeg)
	}
	if cfg.Button.Line != "GPIO17" {
		t.Fatalf("button.line=%q", cfg.Button.Line)
	}
	if cfg.Power.GNSSRail != "GPIO5" || cfg.Power.Backlight != "GPIO6" {
		t.Fatalf("power rails=%q/%q", cfg.Power.GNSSRail, cfg.Power.Backlight)
	}
	if cfg.Web.Listen != ":8080" {
		t.Fatalf("web.listen=%q", cfg.Web.Listen)
	}
}

func TestLoad_SimAndReplayMutuallyExclusive(t *testing.T) {
	path := writeTempConfig(t, "sim:\n  enable: true\nreplay:\n  enable: true\n  path: './x.nmea'\n")
	_, err := Load(path)
	requireErrEq(t, err, "sim and replay cannot both be enabled")
}

func TestLoad_ReplayRequiresPath(t *testing.T) {
	path := writeTempConfig(t, "replay:\n  enable: true\n")
	_, err := Load(path)
	requireErrEq(t, err, "replay.path is required when replay.enable is true")
}

func TestLoad_ReplaySpeedDefaultsToOne(t *testing.T) {
	path := writeTempConfig(t, "replay:\n  enable: true\n  path: './x.nmea'\n  speed: 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Replay.Speed != 1 {
		t.Fatalf("speed=%v want 1", cfg.Replay.Speed)
	}
}

func TestLoad_ReplayNegativeSpeedRejected(t *testing.T) {
	path := writeTempConfig(t, "replay:\n  enable: true\n  path: './x.nmea'\n  speed: -1\n")
	_, err := Load(path)
	requireErrEq(t, err, "replay.speed must be > 0")
}

func TestLoad_ButtonRequiresLine(t *testing.T) {
	path := writeTempConfig(t, "button:\n  enable: true\n")
	_, err := Load(path)
	requireErrEq(t, err, "button.line is required when button.enable is true")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeTempConfig(t, "gnss: [unclosed\n")
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestDefaultAndValidate_NilConfig(t *testing.T) {
	requireErrEq(t, DefaultAndValidate(nil), "config is nil")
}
