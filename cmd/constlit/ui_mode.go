package main

import (
	"fmt"
	"strings"
)

// uiMode is the value of --ui.
type uiMode uint8

const (
	uiOff uiMode = iota
	uiAuto
	uiOn
)

func readUIMode(value string) (uiMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "off", "false", "no":
		return uiOff, nil
	case "", "auto":
		return uiAuto, nil
	case "on", "true", "yes":
		return uiOn, nil
	}
	return uiOff, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI decides whether the progress view is drawn. The view goes to
// stderr, so auto looks at stderr only, and a single document finishes too
// quickly to be worth a full-screen view.
func shouldUseTUI(mode uiMode, stderrIsTTY bool, documents int) bool {
	switch mode {
	case uiOn:
		return true
	case uiAuto:
		return stderrIsTTY && documents > 1
	}
	return false
}
