package ui

import (
	"fmt"

	"trailtracker/internal/nav"
)

const fwVersion = "v1.2"

// rowCache remembers the four text rows of a data screen so unchanged
// rows are not redrawn.
type rowCache struct {
	valid bool
	rows  [4]string
}

type menuCache struct {
	valid bool
	index int
}

type wpMenuCache struct {
	valid  bool
	index  int
	states [nav.WaypointSlots]bool
}

type setWaypointCache struct {
	valid bool
	slot  int
	ready bool
	sats  int // -1 once ready, sats are no longer shown
}

type sysInfoCache struct {
	valid bool
	sats  int
	batt  int
}

type resetCache struct {
	valid bool
	index int
	slot  int
}

func (c *Controller) invalidate() {
	c.statusCache.valid = false
	c.navCache.valid = false
	c.wpNavCache.valid = false
	c.mainCache.valid = false
	c.powerCache.valid = false
	c.wpMenuCache.valid = false
	c.setWpCache.valid = false
	c.sysCache.valid = false
	c.resetCache.valid = false
}

// BootSplash paints the startup banner. Nothing here is cached; the
// first Render that follows does a full redraw over it.
func (c *Controller) BootSplash() {
	c.disp.Fill(colorBlack)
	c.disp.WriteText(0, 0, "TrailTracker")
	c.disp.WriteText(0, rowPitch, fwVersion)
	c.disp.WriteText(0, 2*rowPitch, "Starting...")
}

// Render draws the active screen, issuing draw calls only for content
// that differs from what is already on the panel.
func (c *Controller) Render(v View) {
	if !c.renderedOnce || c.screen != c.lastRendered || c.forceRedraw {
		c.invalidate()
		c.forceRedraw = false
	}
	c.lastRendered = c.screen
	c.renderedOnce = true

	switch c.screen {
	case ScreenStatus:
		c.renderStatus(v)
	case ScreenNavigation:
		c.renderNavigation(v)
	case ScreenMainMenu:
		c.renderMainMenu()
	case ScreenWaypointMenu:
		c.renderWaypointMenu()
	case ScreenWaypoint1Nav, ScreenWaypoint2Nav, ScreenWaypoint3Nav:
		c.renderWaypointNav(v)
	case ScreenSetWaypoint:
		c.renderSetWaypoint(v)
	case ScreenSystemInfo:
		c.renderSystemInfo(v)
	case ScreenPowerMenu:
		c.renderPowerMenu()
	case ScreenWaypointReset:
		c.renderWaypointReset()
	default:
		c.screen = ScreenStatus
		c.renderStatus(v)
	}
}

// drawRows diffs four rows against the cache and redraws only what
// changed. An invalid cache clears the panel and draws everything.
func (c *Controller) drawRows(cache *rowCache, rows [4]string) {
	full := !cache.valid
	if full {
		c.disp.Fill(colorBlack)
	}
	for i, text := range rows {
		if full || cache.rows[i] != text {
			c.disp.WriteText(0, i*rowPitch, text)
		}
	}
	cache.rows = rows
	cache.valid = true
}

func cursorRow(selected bool, item string) string {
	if selected {
		return "> " + item
	}
	return "  " + item
}

func (c *Controller) renderStatus(v View) {
	var rows [4]string

	if v.HaveFix {
		rows[0] = "Fix: Yes     "
	} else {
		rows[0] = "Fix: No      "
	}
	rows[1] = fmt.Sprintf("Sats:%3d     ", v.TotalInView)
	rows[2] = fmt.Sprintf("Batt:%3d%%    ", v.BatteryPct)
	if v.HaveFix && v.HDOP > 0 && v.HDOP < 100 {
		rows[3] = fmt.Sprintf("Acc:%4.1fm   ", v.HDOP*5)
	} else {
		rows[3] = "Acc: --.-m   "
	}

	c.drawRows(&c.statusCache, rows)
}

func (c *Controller) renderNavigation(v View) {
	var rows [4]string

	if v.HaveFix {
		bearing := 0.0
		if v.HomeSet && v.HasPosition {
			bearing = nav.Bearing(v.Position, v.Home)
		}
		rows[0] = fmt.Sprintf("Dir: %s      ", nav.Direction(true, v.HomeSet, bearing))
	} else {
		rows[0] = "Dir: O       "
	}

	if v.HomeSet && v.HasPosition {
		d := nav.Distance(v.Position, v.Home)
		if d < 1000 {
			rows[1] = fmt.Sprintf("Home:%3.0fm   ", d)
		} else {
			rows[1] = fmt.Sprintf("Home:%3.1fkm  ", d/1000)
		}
	} else {
		rows[1] = "Home: --.-m   "
	}

	rows[2] = fmt.Sprintf("Sats:%3d     ", v.TotalInView)

	if v.SpeedValid && v.SpeedKmh < 99.9 {
		rows[3] = fmt.Sprintf("Spd:%4.1fkm/h ", v.SpeedKmh)
	} else {
		rows[3] = "Spd: -.-km/h "
	}

	c.drawRows(&c.navCache, rows)
}

func (c *Controller) renderWaypointNav(v View) {
	if c.activeWaypoint == 0 {
		// No waypoint chosen: bounce to the set screen, drawn next tick.
		c.screen = ScreenSetWaypoint
		c.forceRedraw = true
		return
	}
	slot := c.activeWaypoint - 1
	wp := c.bank.Get(slot)

	var rows [4]string

	if v.HaveFix && wp.Set {
		bearing := 0.0
		if v.HasPosition {
			bearing = nav.Bearing(v.Position, wp.Point)
		}
		rows[0] = fmt.Sprintf("Dir: %s      ", nav.Cardinal(bearing))
	} else {
		rows[0] = "Dir: O       "
	}

	if v.HasPosition && wp.Set {
		d := nav.Distance(v.Position, wp.Point)
		if d < 1000 {
			rows[1] = fmt.Sprintf("WP%d:%3.0fm   ", c.activeWaypoint, d)
		} else {
			rows[1] = fmt.Sprintf("WP%d:%3.1fkm  ", c.activeWaypoint, d/1000)
		}
	} else {
		rows[1] = fmt.Sprintf("WP%d: --.-m   ", c.activeWaypoint)
	}

	rows[2] = fmt.Sprintf("Sats:%3d     ", v.TotalInView)

	if v.SpeedValid && v.SpeedKmh < 99.9 {
		rows[3] = fmt.Sprintf("Spd:%4.1fkm/h ", v.SpeedKmh)
	} else {
		rows[3] = "Spd: -.-km/h "
	}

	c.drawRows(&c.wpNavCache, rows)
}

func (c *Controller) renderMainMenu() {
	if c.mainCache.valid && c.mainCache.index == c.menuIndex {
		return
	}
	c.disp.Fill(colorBlack)
	c.disp.WriteText(0, 0, "MAIN MENU")
	items := [mainMenuItems]string{"Status", "Waypoints", "System Info", "Power Menu"}
	for i, item := range items {
		c.disp.WriteText(0, (i+1)*rowPitch, cursorRow(c.menuIndex == i, item))
	}
	c.mainCache = menuCache{valid: true, index: c.menuIndex}
}

func (c *Controller) renderWaypointMenu() {
	states := c.bank.States()
	if c.wpMenuCache.valid && c.wpMenuCache.index == c.menuIndex && c.wpMenuCache.states == states {
		return
	}
	c.disp.Fill(colorBlack)
	c.disp.WriteText(0, 0, "WAYPOINTS")
	for i := 0; i < nav.WaypointSlots; i++ {
		label := fmt.Sprintf("Set WP%d X", i+1)
		if states[i] {
			label = fmt.Sprintf("Nav WP%d", i+1)
		}
		c.disp.WriteText(0, (i+1)*rowPitch, cursorRow(c.menuIndex == i, label))
	}
	c.disp.WriteText(0, (nav.WaypointSlots+1)*rowPitch,
		cursorRow(c.menuIndex == nav.WaypointSlots, "Back"))
	c.wpMenuCache = wpMenuCache{valid: true, index: c.menuIndex, states: states}
}

func (c *Controller) renderSetWaypoint(v View) {
	ready := v.HasPosition && v.HaveFix
	sats := v.TotalInView
	if ready {
		sats = -1
	}
	if c.setWpCache.valid && c.setWpCache.slot == c.waypointToSet &&
		c.setWpCache.ready == ready && c.setWpCache.sats == sats {
		return
	}
	c.disp.Fill(colorBlack)
	c.disp.WriteText(0, 0, fmt.Sprintf("SET WP%d", c.waypointToSet+1))
	if ready {
		c.disp.WriteText(0, rowPitch, "GPS Ready!")
		c.disp.WriteText(0, 2*rowPitch, "Press to save")
	} else {
		c.disp.WriteText(0, rowPitch, "Wait for GPS...")
		c.disp.WriteText(0, 2*rowPitch, fmt.Sprintf("Sats: %d", v.TotalInView))
	}
	c.setWpCache = setWaypointCache{valid: true, slot: c.waypointToSet, ready: ready, sats: sats}
}

func (c *Controller) renderSystemInfo(v View) {
	if c.sysCache.valid && c.sysCache.sats == v.TotalInView && c.sysCache.batt == v.BatteryPct {
		return
	}
	c.disp.Fill(colorBlack)
	c.disp.WriteText(0, 0, "SYSTEM INFO")
	c.disp.WriteText(0, rowPitch, "FW: "+fwVersion)
	c.disp.WriteText(0, 2*rowPitch, fmt.Sprintf("Sats: %d", v.TotalInView))
	c.disp.WriteText(0, 3*rowPitch, fmt.Sprintf("Batt: %d%%", v.BatteryPct))
	c.sysCache = sysInfoCache{valid: true, sats: v.TotalInView, batt: v.BatteryPct}
}

func (c *Controller) renderPowerMenu() {
	if c.powerCache.valid && c.powerCache.index == c.menuIndex {
		return
	}
	c.disp.Fill(colorBlack)
	c.disp.WriteText(0, 0, "POWER MENU")
	items := [powerMenuItems]string{"Sleep Mode", "Deep Sleep", "Screen Off", "Back"}
	for i, item := range items {
		c.disp.WriteText(0, (i+1)*rowPitch, cursorRow(c.menuIndex == i, item))
	}
	c.powerCache = menuCache{valid: true, index: c.menuIndex}
}

func (c *Controller) renderWaypointReset() {
	if c.resetCache.valid && c.resetCache.index == c.menuIndex && c.resetCache.slot == c.waypointToReset {
		return
	}
	c.disp.Fill(colorBlack)
	c.disp.WriteText(0, 0, fmt.Sprintf("WAYPOINT %d", c.waypointToReset+1))
	if name := c.bank.Get(c.waypointToReset).Name; name != "" {
		c.disp.WriteText(0, rowPitch, name)
	}
	items := [resetMenuItems]string{"Navigate", "Reset", "Cancel"}
	for i, item := range items {
		c.disp.WriteText(0, (i+2)*rowPitch, cursorRow(c.menuIndex == i, item))
	}
	c.resetCache = resetCache{valid: true, index: c.menuIndex, slot: c.waypointToReset}
}
