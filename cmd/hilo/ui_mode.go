package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode is the value of --ui.
type uiMode uint8

const (
	uiAuto uiMode = iota
	uiOn
	uiOff
)

var uiModes = map[string]uiMode{"": uiAuto, "auto": uiAuto, "on": uiOn, "off": uiOff}

func readUIMode(value string) (uiMode, error) {
	m, ok := uiModes[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return uiAuto, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return m, nil
}

// shouldUseTUI reports whether the progress view is drawn. It never is when
// lowered output goes to stdout.
func shouldUseTUI(mode uiMode, toStdout bool) bool {
	if toStdout || mode == uiOff {
		return false
	}
	return mode == uiOn || isTerminal(os.Stdout)
}
