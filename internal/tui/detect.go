package tui

import (
	"os"

	"golang.org/x/term"
)

// Mode is the interaction mode of a taxiload run.
type Mode int

const (
	// ModeNonInteractive is used for pipelines, scripts and redirected output.
	ModeNonInteractive Mode = iota
	// ModeInteractive is used when a human is at the terminal.
	ModeInteractive
)

// NonInteractiveEnv disables prompting when set to "1".
const NonInteractiveEnv = "TAXILOAD_NON_INTERACTIVE"

// DetectMode returns ModeNonInteractive when TAXILOAD_NON_INTERACTIVE=1,
// when CI is set, or when stdin or stdout is not a terminal.
func DetectMode() Mode {
	if os.Getenv(NonInteractiveEnv) == "1" {
		return ModeNonInteractive
	}
	if os.Getenv("CI") != "" {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ModeNonInteractive
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return ModeNonInteractive
	}
	return ModeInteractive
}

// IsInteractive reports whether DetectMode returns ModeInteractive.
func IsInteractive() bool {
	return DetectMode() == ModeInteractive
}
