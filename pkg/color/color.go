// Package color provides terminal color output support.
// It respects the NO_COLOR environment variable (https://no-color.org/).
package color

import (
	"fmt"
	"os"
	"sync"
)

var state struct {
	once     sync.Once
	enabled  bool
	disabled bool
}

// Init decides once whether output gets colored. NO_COLOR, TERM=dumb
// and the explicit flag each force plain output.
func Init(noColorFlag bool) {
	state.once.Do(func() {
		if _, exists := os.LookupEnv("NO_COLOR"); exists {
			state.disabled = true
		}
		if os.Getenv("TERM") == "dumb" {
			state.disabled = true
		}
		if noColorFlag {
			state.disabled = true
		}
		state.enabled = !state.disabled
	})
}

// Enabled reports whether output is being colored.
func Enabled() bool {
	Init(false)
	return state.enabled
}

// Disable forces plain output, also after Init already ran.
func Disable() {
	state.disabled = true
	state.enabled = false
}

// Enable forces colored output, also after Init already ran.
func Enable() {
	state.disabled = false
	state.enabled = true
}

// ANSI codes.
const (
	Reset   = "\033[0m"
	Bold    = "\033[1m"
	DimCode = "\033[2m"

	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[90m"
)

func wrap(code, s string) string {
	if !Enabled() {
		return s
	}
	return code + s + Reset
}

// Success marks a message green.
func Success(s string) string {
	return wrap(Green, s)
}

// Error marks a message red.
func Error(s string) string {
	return wrap(Red, s)
}

// Errorf is Error with printf formatting.
func Errorf(format string, args ...any) string {
	return wrap(Red, fmt.Sprintf(format, args...))
}

// Warning marks a message yellow.
func Warning(s string) string {
	return wrap(Yellow, s)
}

// Info marks a message cyan.
func Info(s string) string {
	return wrap(Cyan, s)
}

// JobName formats a job name in cyan (for visibility in lists).
func JobName(s string) string {
	return wrap(Cyan, s)
}

// Header bolds a section heading.
func Header(s string) string {
	return wrap(Bold, s)
}

// Dim formats secondary information.
func Dim(s string) string {
	return wrap(DimCode, s)
}

// Command formats a rendered command line in a distinct style.
func Command(s string) string {
	if !Enabled() {
		return s
	}
	return Bold + DimCode + s + Reset
}
