package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveThemeVariants(t *testing.T) {
	assert.Equal(t, gruvbox.colors(), resolveColors("Gruvbox Dark"))
	assert.Equal(t, kanagawa.colors(), resolveColors("kanagawa_dragon"))
	assert.Equal(t, terminalColors(), resolveColors("terminal"))
	assert.Equal(t, kanagawa.colors(), resolveColors("no-such-theme"))
}

func TestThemeFromEnv(t *testing.T) {
	t.Setenv("CELLCONSOLE_THEME", "Terminal")
	assert.Equal(t, "terminal", themeName())
	assert.Equal(t, terminalColors(), NewTheme().Colors)
}

func TestObjectColorCycles(t *testing.T) {
	th := NewThemeWithName("terminal")
	n := len(th.ObjectColors)
	assert.Equal(t, th.ObjectColor(1), th.ObjectColor(n+1))
}

func TestSetIcons(t *testing.T) {
	SetIcons(true)
	assert.Equal(t, asciiIconLock, IconLock)
	SetIcons(false)
	assert.Equal(t, nerdIconLock, IconLock)
}
