package console

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// InitTerminal forces a true-color profile when CLICOLOR_FORCE=1 or
// COLORTERM=truecolor, so the console renders in color under terminal
// multiplexers and recorders that hide the real capabilities.
func InitTerminal() {
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		lipgloss.SetColorProfile(termenv.TrueColor)
	}
}
