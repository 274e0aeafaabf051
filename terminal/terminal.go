// Package terminal identifies the terminal emulator the process runs in. The
// label is attached to outbound model requests as a diagnostic header.
package terminal

import (
	"os"
	"strings"
	"sync"
)

// LookupFunc reads one environment variable, reporting whether it is set.
// os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

var userAgent = sync.OnceValue(func() string { return Detect(os.LookupEnv) })

// UserAgent returns the terminal label for this process. It is computed from
// the environment on first use and never changes afterwards.
func UserAgent() string { return userAgent() }

// Detect derives the terminal label from the variables visible through
// lookup. Checks run in a fixed order and the first match wins.
func Detect(lookup LookupFunc) string {
	nonBlank := func(key string) (string, bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	}
	present := func(key string) bool {
		_, ok := lookup(key)
		return ok
	}
	withVersion := func(name, key string) string {
		if v, ok := nonBlank(key); ok {
			return name + "/" + v
		}
		return name
	}
	term, hasTerm := lookup("TERM")

	if tp, ok := nonBlank("TERM_PROGRAM"); ok {
		return withVersion(tp, "TERM_PROGRAM_VERSION")
	}
	if present("WEZTERM_VERSION") {
		return withVersion("WezTerm", "WEZTERM_VERSION")
	}
	if present("KITTY_WINDOW_ID") || (hasTerm && strings.Contains(term, "kitty")) {
		return "kitty"
	}
	if present("ALACRITTY_SOCKET") || (hasTerm && term == "alacritty") {
		return "Alacritty"
	}
	if present("KONSOLE_VERSION") {
		return withVersion("Konsole", "KONSOLE_VERSION")
	}
	if present("GNOME_TERMINAL_SCREEN") {
		return "gnome-terminal"
	}
	if present("VTE_VERSION") {
		return withVersion("VTE", "VTE_VERSION")
	}
	if present("WT_SESSION") {
		return "WindowsTerminal"
	}
	if hasTerm {
		return term
	}
	return "unknown"
}
