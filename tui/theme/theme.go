// Package theme holds the lipgloss palette and styles shared by the console.
package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/cellconsole/config"
)

const defaultThemeName = "kanagawa"

// Colors is the palette a theme is built from. lipgloss.TerminalColor allows
// a mix of adaptive and static colors.
type Colors struct {
	Green, Yellow, Red, Orange     lipgloss.TerminalColor
	Cyan, Blue, Violet, Pink       lipgloss.TerminalColor
	LightText, MutedText, DarkText lipgloss.TerminalColor
	Border                         lipgloss.TerminalColor
	SelectedBackground             lipgloss.TerminalColor
	SubtleBackground               lipgloss.TerminalColor
}

// Theme holds the pre-configured console styles.
type Theme struct {
	Colors Colors

	Header lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style

	Pane        lipgloss.Style
	FocusedPane lipgloss.Style
	StatusBar   lipgloss.Style
	Toast       lipgloss.Style

	// Workflow tabs
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style

	// ObjectColors tint detected objects and priority groups in order.
	ObjectColors []lipgloss.TerminalColor
}

// pair is one adaptive color: light background first.
type pair [2]string

func (p pair) color() lipgloss.TerminalColor {
	return lipgloss.AdaptiveColor{Light: p[0], Dark: p[1]}
}

// palette lists a theme's colors in Colors field order.
type palette struct {
	green, yellow, red, orange, cyan, blue, violet, pink pair
	light, muted, dark, border, selected, subtle         pair
}

func (p palette) colors() Colors {
	return Colors{
		Green:              p.green.color(),
		Yellow:             p.yellow.color(),
		Red:                p.red.color(),
		Orange:             p.orange.color(),
		Cyan:               p.cyan.color(),
		Blue:               p.blue.color(),
		Violet:             p.violet.color(),
		Pink:               p.pink.color(),
		LightText:          p.light.color(),
		MutedText:          p.muted.color(),
		DarkText:           p.dark.color(),
		Border:             p.border.color(),
		SelectedBackground: p.selected.color(),
		SubtleBackground:   p.subtle.color(),
	}
}

var kanagawa = palette{
	green:    pair{"#4E7C5A", "#98BB6C"},
	yellow:   pair{"#A68A64", "#FF9E3B"},
	red:      pair{"#C34043", "#FF5D62"},
	orange:   pair{"#CC6B4E", "#FFA066"},
	cyan:     pair{"#5B8BBE", "#7E9CD8"},
	blue:     pair{"#4F7CAC", "#7FB4CA"},
	violet:   pair{"#674D7A", "#957FB8"},
	pink:     pair{"#B35C74", "#D27E99"},
	light:    pair{"#2B2F42", "#DCD7BA"},
	muted:    pair{"#6C7086", "#727169"},
	dark:     pair{"#E6E9EF", "#1D1C19"},
	border:   pair{"#B5BDC5", "#363646"},
	selected: pair{"#E2E6F3", "#223249"},
	subtle:   pair{"#F7F7FB", "#1F1F28"},
}

var gruvbox = palette{
	green:    pair{"#98971A", "#B8BB26"},
	yellow:   pair{"#D79921", "#FABD2F"},
	red:      pair{"#CC241D", "#FB4934"},
	orange:   pair{"#D65D0E", "#FE8019"},
	cyan:     pair{"#458588", "#83A598"},
	blue:     pair{"#076678", "#458588"},
	violet:   pair{"#8F3F71", "#B16286"},
	pink:     pair{"#B57679", "#D3869B"},
	light:    pair{"#3C3836", "#EBDBB2"},
	muted:    pair{"#928374", "#BDAE93"},
	dark:     pair{"#F9F5D7", "#1D2021"},
	border:   pair{"#D5C4A1", "#504945"},
	selected: pair{"#F2E5BC", "#32302F"},
	subtle:   pair{"#FBF1C7", "#282828"},
}

// terminalColors uses the ANSI palette so the console follows the
// terminal's own scheme.
func terminalColors() Colors {
	c := func(s string) lipgloss.TerminalColor { return lipgloss.Color(s) }
	return Colors{
		Green: c("2"), Yellow: c("3"), Red: c("1"), Orange: c("208"),
		Cyan: c("6"), Blue: c("4"), Violet: c("5"), Pink: c("13"),
		LightText: c("7"), MutedText: c("8"), DarkText: c("0"),
		Border: c("8"), SelectedBackground: c("8"), SubtleBackground: c("0"),
	}
}

var themes = map[string]func() Colors{
	"kanagawa": kanagawa.colors,
	"gruvbox":  gruvbox.colors,
	"terminal": terminalColors,
}

// DefaultTheme is the theme selected by CELLCONSOLE_THEME or the "tui"
// section of the configuration.
var DefaultTheme = NewTheme()

// NewTheme creates the configured theme.
func NewTheme() *Theme {
	return NewThemeWithName(themeName())
}

// NewThemeWithName builds a named theme. Variants such as "gruvbox-dark"
// resolve to their family; unknown names fall back to kanagawa.
func NewThemeWithName(name string) *Theme {
	return fromColors(resolveColors(name))
}

// ObjectColor returns the color of the i-th object or group.
func (t *Theme) ObjectColor(i int) lipgloss.TerminalColor {
	return t.ObjectColors[i%len(t.ObjectColors)]
}

func fromColors(c Colors) *Theme {
	rounded := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1)
	return &Theme{
		Colors: c,

		Header: lipgloss.NewStyle().Bold(true).Foreground(c.LightText),

		Success: lipgloss.NewStyle().Bold(true).Foreground(c.Green),
		Error:   lipgloss.NewStyle().Bold(true).Foreground(c.Red),
		Warning: lipgloss.NewStyle().Bold(true).Foreground(c.Yellow),
		Info:    lipgloss.NewStyle().Bold(true).Foreground(c.Cyan),

		Bold:     lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Faint(true),
		Selected: lipgloss.NewStyle().Background(c.SelectedBackground).Foreground(c.LightText),

		Pane:        rounded.BorderForeground(c.Border),
		FocusedPane: rounded.BorderForeground(c.Violet),
		StatusBar:   lipgloss.NewStyle().Background(c.SubtleBackground).Foreground(c.LightText).Padding(0, 1),
		Toast:       rounded.BorderForeground(c.Orange).Foreground(c.LightText),

		Tab:       lipgloss.NewStyle().Foreground(c.MutedText).Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().Bold(true).Foreground(c.DarkText).Background(c.Cyan).Padding(0, 1),

		ObjectColors: []lipgloss.TerminalColor{c.Red, c.Orange, c.Pink, c.Blue, c.Green, c.Yellow},
	}
}

func resolveColors(name string) Colors {
	key := normalize(name)
	if build, ok := themes[key]; ok {
		return build()
	}
	for family, build := range themes {
		if strings.HasPrefix(key, family+"-") {
			return build()
		}
	}
	return themes[defaultThemeName]()
}

func normalize(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer(" ", "-", "_", "-").Replace(n)
}

// tuiConfig is the "tui" configuration extension.
type tuiConfig struct {
	Theme string `yaml:"theme"`
	Icons string `yaml:"icons"`
}

func loadTUIConfig() tuiConfig {
	var tc tuiConfig
	cfg, _, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return tc
	}
	_ = cfg.UnmarshalExtension("tui", &tc)
	return tc
}

func themeName() string {
	if name := normalize(os.Getenv("CELLCONSOLE_THEME")); name != "" {
		return name
	}
	if name := normalize(loadTUIConfig().Theme); name != "" {
		return name
	}
	return defaultThemeName
}
