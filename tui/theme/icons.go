package theme

import "os"

// Nerd Font icons
const (
	nerdIconSuccess = "󰄬" // md-check (U+F012C)
	nerdIconError   = "" // cod-error (U+EA87)
	nerdIconWarning = "" // fa-warning (U+F071)
	nerdIconRunning = "" // fa-refresh (U+F021)
	nerdIconArrow   = "󰁔" // md-arrow_right (U+F0054)
	nerdIconBullet  = "" // oct-dot_fill (U+F444)
	nerdIconRobot   = "󰭆" // md-robot_industrial (U+F0B46)
	nerdIconCamera  = "󰄀" // md-camera (U+F0100)
	nerdIconLock    = "󰌾" // md-lock (U+F033E)
	nerdIconUnlock  = "󰌿" // md-lock_open (U+F033F)
	nerdIconStop    = "󰓛" // md-stop (U+F04DB)
)

// ASCII fallbacks
const (
	asciiIconSuccess = "✓"
	asciiIconError   = "✗"
	asciiIconWarning = "⚠"
	asciiIconRunning = "◐"
	asciiIconArrow   = "→"
	asciiIconBullet  = "•"
	asciiIconRobot   = "[R]"
	asciiIconCamera  = "[C]"
	asciiIconLock    = "[L]"
	asciiIconUnlock  = "[U]"
	asciiIconStop    = "[S]"
)

var (
	IconSuccess string
	IconError   string
	IconWarning string
	IconRunning string
	IconArrow   string
	IconBullet  string
	IconRobot   string
	IconCamera  string
	IconLock    string
	IconUnlock  string
	IconStop    string
)

func init() {
	mode := os.Getenv("CELLCONSOLE_ICONS")
	if mode == "" {
		mode = loadTUIConfig().Icons
	}
	SetIcons(mode == "ascii")
}

// SetIcons switches between the Nerd Font set and the ASCII fallbacks.
func SetIcons(ascii bool) {
	if ascii {
		IconSuccess, IconError, IconWarning = asciiIconSuccess, asciiIconError, asciiIconWarning
		IconRunning, IconArrow, IconBullet = asciiIconRunning, asciiIconArrow, asciiIconBullet
		IconRobot, IconCamera = asciiIconRobot, asciiIconCamera
		IconLock, IconUnlock, IconStop = asciiIconLock, asciiIconUnlock, asciiIconStop
		return
	}
	IconSuccess, IconError, IconWarning = nerdIconSuccess, nerdIconError, nerdIconWarning
	IconRunning, IconArrow, IconBullet = nerdIconRunning, nerdIconArrow, nerdIconBullet
	IconRobot, IconCamera = nerdIconRobot, nerdIconCamera
	IconLock, IconUnlock, IconStop = nerdIconLock, nerdIconUnlock, nerdIconStop
}
