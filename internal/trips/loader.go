// Package trips reads bz2-compressed taxi trip files into cleaned, typed tables.
package trips

import (
	"context"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// Loader implements taxiload.Loader for headerless trip CSV archives.
// The whole decompressed payload is held in memory.
type Loader struct {
	logger taxiload.Logger
}

// NewLoader creates a Loader that reports progress through logger.
func NewLoader(logger taxiload.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load decompresses, parses and cleans the archive at path.
func (l *Loader) Load(ctx context.Context, path string) (*taxiload.Table, error) {
	l.logger.Verbose("Decompressing %s", path)
	payload, checksum, err := readArchive(path)
	if err != nil {
		return nil, err
	}
	l.logger.Verbose("Decompressed %d bytes (xxhash64 %s)", len(payload), checksum)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := parsePayload(payload)
	if err != nil {
		return nil, err
	}
	l.logger.Verbose("Parsed %d rows", len(rows))

	table := &taxiload.Table{
		Source:   path,
		Checksum: checksum,
	}
	table.Records = fillDefaults(coerce(rows), &table.Stats)

	s := table.Stats
	l.logger.Verbose("Defaults applied: medallion=%d hack_license=%d payment_type=%d fare_amount=%d trip_distance=%d",
		s.DefaultedMedallion, s.DefaultedHackLicense, s.DefaultedPaymentType, s.DefaultedFareAmount, s.DefaultedDistance)
	if s.NullPickup > 0 || s.NullDropoff > 0 {
		l.logger.Verbose("Unparseable timestamps: pickup=%d dropoff=%d (fallback %s at write time)",
			s.NullPickup, s.NullDropoff, taxiload.FallbackTimestamp)
	}

	return table, nil
}

var _ taxiload.Loader = (*Loader)(nil)
