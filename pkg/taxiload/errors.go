package taxiload

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure domains of a load run.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	table, err := loader.Load(ctx, path)
//	if errors.Is(err, taxiload.ErrDecompression) {
//	    // archive missing or corrupt
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDecompression indicates the input could not be opened or is not a valid bz2 stream.
	ErrDecompression = errors.New("decompression failed")

	// ErrParse indicates the decompressed payload is not a well-formed 17-column CSV.
	ErrParse = errors.New("parse failed")

	// ErrConnection indicates the database connection could not be established.
	ErrConnection = errors.New("connection failed")

	// ErrInsert indicates the bulk insert or its commit failed. No rows were committed.
	ErrInsert = errors.New("insert failed")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrPromptCancelled indicates the user dismissed the interactive prompt.
	ErrPromptCancelled = errors.New("prompt cancelled")

	// ErrMissingInput indicates no input file was given and none could be prompted for.
	ErrMissingInput = errors.New("no input file")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrPromptCancelled), errors.Is(err, ErrMissingInput):
		return ExitUsageError
	case errors.Is(err, ErrDecompression):
		return ExitDecompressionError
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrConnection):
		return ExitConnectionError
	case errors.Is(err, ErrInsert):
		return ExitInsertError
	}

	// Cobra reports flag and argument problems as plain errors
	errStr := err.Error()
	for _, prefix := range []string{"unknown flag", "unknown shorthand flag", "unknown command", "accepts ", "requires at least", "invalid argument", "required flag"} {
		if strings.HasPrefix(errStr, prefix) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
