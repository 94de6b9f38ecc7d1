package ui

import (
	"fmt"
	"log"
	"time"

	"trailtracker/internal/nav"
)

// sleepFn lets tests skip the splash delays.
var sleepFn = time.Sleep

// Controller is the screen state machine. It is not safe for concurrent
// use; the poll engine owns it and calls it from a single goroutine.
type Controller struct {
	disp  Display
	power Power
	bank  *nav.Bank

	screen    Screen
	menuIndex int

	// activeWaypoint is 1-based; 0 means no waypoint selected for
	// navigation yet.
	activeWaypoint  int
	waypointToSet   int // slot index pending a save
	waypointToReset int // slot index shown on the reset prompt

	lastRendered Screen
	renderedOnce bool
	forceRedraw  bool

	statusCache rowCache
	navCache    rowCache
	wpNavCache  rowCache
	mainCache   menuCache
	powerCache  menuCache
	wpMenuCache wpMenuCache
	setWpCache  setWaypointCache
	sysCache    sysInfoCache
	resetCache  resetCache
}

// NewController starts on the main menu with the cursor on the first item.
func NewController(disp Display, power Power, bank *nav.Bank) *Controller {
	return &Controller{
		disp:   disp,
		power:  power,
		bank:   bank,
		screen: ScreenMainMenu,
	}
}

// Screen reports the currently active screen.
func (c *Controller) Screen() Screen { return c.screen }

// ActiveWaypoint reports the 1-based slot being navigated to, or 0.
func (c *Controller) ActiveWaypoint() int { return c.activeWaypoint }

// HandleLongPress cycles the cursor on menu screens and returns to the
// main menu from everywhere else.
func (c *Controller) HandleLongPress() {
	switch c.screen {
	case ScreenMainMenu:
		c.menuIndex = (c.menuIndex + 1) % mainMenuItems
	case ScreenWaypointMenu:
		c.menuIndex = (c.menuIndex + 1) % waypointMenuItems
	case ScreenWaypointReset:
		c.menuIndex = (c.menuIndex + 1) % resetMenuItems
	case ScreenPowerMenu:
		c.menuIndex = (c.menuIndex + 1) % powerMenuItems
	default:
		c.screen = ScreenMainMenu
		c.menuIndex = 0
		log.Printf("ui: long press, back to main menu")
	}
}

// HandleShortPress activates the item under the cursor, or on data screens
// does nothing until the user long-presses back to the menu.
func (c *Controller) HandleShortPress(fix Fix) {
	switch c.screen {
	case ScreenMainMenu:
		c.shortPressMainMenu()
	case ScreenWaypointMenu:
		c.shortPressWaypointMenu()
	case ScreenSetWaypoint:
		c.shortPressSetWaypoint(fix)
	case ScreenWaypointReset:
		c.shortPressWaypointReset()
	case ScreenPowerMenu:
		c.shortPressPowerMenu()
	default:
		c.screen = ScreenMainMenu
		c.menuIndex = 0
	}
}

func (c *Controller) shortPressMainMenu() {
	switch c.menuIndex {
	case 0:
		c.screen = ScreenStatus
		log.Printf("ui: status screen")
	case 1:
		c.screen = ScreenWaypointMenu
		c.menuIndex = 0
		log.Printf("ui: waypoint menu")
	case 2:
		c.screen = ScreenSystemInfo
		log.Printf("ui: system info screen")
	case 3:
		c.screen = ScreenPowerMenu
		log.Printf("ui: power menu")
	}
}

func (c *Controller) shortPressWaypointMenu() {
	if c.menuIndex >= nav.WaypointSlots {
		// Back, landing on the Waypoints item it came from.
		c.screen = ScreenMainMenu
		c.menuIndex = 1
		return
	}
	slot := c.menuIndex
	if c.bank.Get(slot).Set {
		c.screen = ScreenWaypointReset
		c.waypointToReset = slot
		c.menuIndex = 0
	} else {
		c.screen = ScreenSetWaypoint
		c.waypointToSet = slot
	}
}

func (c *Controller) shortPressSetWaypoint(fix Fix) {
	if !fix.HasPosition || !fix.HaveFix {
		log.Printf("ui: gps not ready, waypoint %d not saved", c.waypointToSet+1)
		return
	}
	name := fmt.Sprintf("WP%d", c.waypointToSet+1)
	if err := c.bank.Set(c.waypointToSet, fix.Position, name); err != nil {
		log.Printf("ui: save waypoint %d: %v", c.waypointToSet+1, err)
	} else {
		log.Printf("ui: waypoint %d saved lat=%.6f lon=%.6f",
			c.waypointToSet+1, fix.Position.LatDeg, fix.Position.LonDeg)
	}
	c.screen = ScreenWaypointMenu
	c.menuIndex = c.waypointToSet
}

func (c *Controller) shortPressWaypointReset() {
	switch c.menuIndex {
	case 0: // Navigate
		c.screen = ScreenWaypoint1Nav + Screen(c.waypointToReset)
		c.activeWaypoint = c.waypointToReset + 1
		log.Printf("ui: navigating to waypoint %d", c.activeWaypoint)
	case 1: // Reset
		if err := c.bank.Clear(c.waypointToReset); err != nil {
			log.Printf("ui: reset waypoint %d: %v", c.waypointToReset+1, err)
		} else {
			log.Printf("ui: waypoint %d cleared", c.waypointToReset+1)
		}
		c.screen = ScreenSetWaypoint
		c.waypointToSet = c.waypointToReset
	case 2: // Cancel
		c.screen = ScreenWaypointMenu
		c.menuIndex = c.waypointToReset
	}
}

func (c *Controller) shortPressPowerMenu() {
	switch c.menuIndex {
	case 0: // Sleep Mode
		c.disp.Fill(colorBlack)
		c.disp.WriteText(0, 0, "ENTERING SLEEP")
		c.disp.WriteText(0, rowPitch, "Press to wake")
		sleepFn(time.Second)
		log.Printf("ui: entering light sleep")
		if c.power != nil {
			if err := c.power.LightSleep(); err != nil {
				log.Printf("ui: light sleep failed: %v", err)
			}
		}
		log.Printf("ui: woke from light sleep")
		c.screen = ScreenMainMenu
		c.menuIndex = 0
		c.forceRedraw = true
	case 1: // Deep Sleep
		c.disp.Fill(colorBlack)
		c.disp.WriteText(0, 0, "DEEP SLEEP")
		c.disp.WriteText(0, rowPitch, "Hold button")
		c.disp.WriteText(0, 2*rowPitch, "to wake up")
		sleepFn(2 * time.Second)
		log.Printf("ui: entering deep sleep")
		if c.power != nil {
			if err := c.power.DeepSleep(); err != nil {
				log.Printf("ui: deep sleep failed: %v", err)
			}
		}
		// Deep sleep halts the process on the target hardware. If the
		// platform suspends instead, waking lands back here and the
		// session restarts on the main menu.
		log.Printf("ui: woke from deep sleep")
		c.screen = ScreenMainMenu
		c.menuIndex = 0
		c.forceRedraw = true
	case 2: // Screen Off
		c.disp.Fill(colorBlack)
		c.screen = ScreenStatus
		log.Printf("ui: screen off")
	case 3: // Back
		c.screen = ScreenMainMenu
		c.menuIndex = 3
	}
}
