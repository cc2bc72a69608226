package tui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm asks a yes/no question on stdin. Empty input counts as yes.
// Non-interactive runs always answer no.
func Confirm(message string) bool {
	if !IsInteractive() {
		return false
	}
	return ConfirmFrom(os.Stdin, os.Stderr, message)
}

// ConfirmFrom asks message on out and reads the answer from in.
func ConfirmFrom(in io.Reader, out io.Writer, message string) bool {
	fmt.Fprintf(out, "%s [Y/n]: ", message)

	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	switch strings.TrimSpace(response) {
	case "", "y", "Y", "yes":
		return true
	default:
		return false
	}
}
