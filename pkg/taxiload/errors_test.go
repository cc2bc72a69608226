package taxiload_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, taxiload.ExitSuccess},
		{"general error", errors.New("something went wrong"), taxiload.ExitGeneralError},
		{"unknown flag", errors.New("unknown flag: --foo"), taxiload.ExitUsageError},
		{"unknown shorthand flag", errors.New("unknown shorthand flag: 'x' in -x"), taxiload.ExitUsageError},
		{"accepts args", errors.New("accepts at most 1 arg(s), received 2"), taxiload.ExitUsageError},
		{"invalid argument", errors.New("invalid argument \"abc\" for \"--port\""), taxiload.ExitUsageError},
		{"prompt cancelled", taxiload.ErrPromptCancelled, taxiload.ExitUsageError},
		{"missing input", fmt.Errorf("run: %w", taxiload.ErrMissingInput), taxiload.ExitUsageError},
		{"invalid config", fmt.Errorf("port: %w", taxiload.ErrInvalidConfig), taxiload.ExitConfigError},
		{"unsupported auth", taxiload.ErrUnsupportedAuthMethod, taxiload.ExitConfigError},
		{"decompression", fmt.Errorf("open trips.bz2: %w", taxiload.ErrDecompression), taxiload.ExitDecompressionError},
		{"parse", fmt.Errorf("line 3: %w", taxiload.ErrParse), taxiload.ExitParseError},
		{"connection failed", taxiload.ErrConnection, taxiload.ExitConnectionError},
		{"insert failed", fmt.Errorf("SQLSTATE 23505: %w", taxiload.ErrInsert), taxiload.ExitInsertError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := taxiload.ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
