package commands

import "github.com/fatih/color"

var bold = color.New(color.Bold).SprintFunc()

// Status marks are rendered on use so color.NoColor set after start-up
// takes effect.
func okMark() string   { return color.New(color.FgGreen).Sprint("✓") }
func failMark() string { return color.New(color.FgRed).Sprint("✗") }
func warnMark() string { return color.New(color.FgYellow).Sprint("!") }

func mark(ok bool) string {
	if ok {
		return okMark()
	}
	return failMark()
}
