package ui

// Screen identifies one of the tracker's display pages. The three
// waypoint navigation screens are contiguous so a slot index can be added
// to ScreenWaypoint1Nav.
type Screen int

const (
	ScreenStatus Screen = iota
	ScreenNavigation
	ScreenMainMenu
	ScreenWaypointMenu
	ScreenWaypoint1Nav
	ScreenWaypoint2Nav
	ScreenWaypoint3Nav
	ScreenSetWaypoint
	ScreenSystemInfo
	ScreenPowerMenu
	ScreenWaypointReset
)

// Menu item counts, used by the long-press cursor cycle.
const (
	mainMenuItems     = 4
	waypointMenuItems = 4
	resetMenuItems    = 3
	powerMenuItems    = 4
)

func (s Screen) String() string {
	switch s {
	case ScreenStatus:
		return "status"
	case ScreenNavigation:
		return "navigation"
	case ScreenMainMenu:
		return "main-menu"
	case ScreenWaypointMenu:
		return "waypoint-menu"
	case ScreenWaypoint1Nav:
		return "waypoint-1-nav"
	case ScreenWaypoint2Nav:
		return "waypoint-2-nav"
	case ScreenWaypoint3Nav:
		return "waypoint-3-nav"
	case ScreenSetWaypoint:
		return "set-waypoint"
	case ScreenSystemInfo:
		return "system-info"
	case ScreenPowerMenu:
		return "power-menu"
	case ScreenWaypointReset:
		return "waypoint-reset"
	}
	return "unknown"
}
