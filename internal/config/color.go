package config

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
)

var (
	FORCE_COLOR           bool
	TRUECOLOR_COLORTERM   bool
	TERM_256COLOR_CAPABLE bool
	NO_COLOR              bool
	SHOULD_COLORIZE       bool
)

func init() {
	if s, ok := os.LookupEnv("FORCE_COLOR"); ok {
		FORCE_COLOR = isEnabled(s)
	}

	TRUECOLOR_COLORTERM = os.Getenv("COLORTERM") == "truecolor"

	if s, ok := os.LookupEnv("NO_COLOR"); ok {
		NO_COLOR = isEnabled(s)
	}

	term := os.Getenv("TERM")
	if strings.Contains(term, "256color") {
		TERM_256COLOR_CAPABLE = true
	}

	SHOULD_COLORIZE = !NO_COLOR && (FORCE_COLOR || TRUECOLOR_COLORTERM || TERM_256COLOR_CAPABLE)
}

func isEnabled(envValue string) bool {
	return len(envValue) != 0 && envValue != "false" && envValue != "0"
}

// ColorProfile returns the profile used to colorize the output of the CLI, termenv.Ascii disables colors.
func ColorProfile() termenv.Profile {
	if !SHOULD_COLORIZE {
		return termenv.Ascii
	}
	if TRUECOLOR_COLORTERM {
		return termenv.TrueColor
	}
	return termenv.ANSI256
}
