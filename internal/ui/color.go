package ui

import (
	"os"

	"github.com/muesli/termenv"
)

// colorDisabled is set once at startup from config or flags.
var colorDisabled bool

// SetColorDisabled forces plain output regardless of terminal support.
func SetColorDisabled(disabled bool) {
	colorDisabled = disabled
}

// ShouldUseColor reports whether styled output is appropriate: not
// explicitly disabled, NO_COLOR unset, and stdout is a color-capable
// terminal.
func ShouldUseColor() bool {
	if colorDisabled {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return termenv.EnvColorProfile() != termenv.Ascii
}
