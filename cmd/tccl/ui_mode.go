package main

import (
	"fmt"
	"os"
	"strings"
)

// uiMode selects the progress display for build and check.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	v := uiMode(strings.ToLower(strings.TrimSpace(value)))
	switch v {
	case "":
		return uiModeAuto, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return v, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI: --ui on wins over everything, auto needs pretty output on a
// terminal and no --quiet.
func shouldUseTUI(mode uiMode, format string, quiet bool) bool {
	if mode != uiModeAuto {
		return mode == uiModeOn
	}
	return !quiet && format == "pretty" && isTerminal(os.Stdout)
}
