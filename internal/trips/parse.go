package trips

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jszwec/csvutil"
	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// rawTrip is one CSV row before coercion. Tags follow taxiload.Columns.
type rawTrip struct {
	Medallion        string `csv:"medallion"`
	HackLicense      string `csv:"hack_license"`
	PickupDatetime   string `csv:"pickup_datetime"`
	DropoffDatetime  string `csv:"dropoff_datetime"`
	TripTimeInSecs   string `csv:"trip_time_in_secs"`
	TripDistance     string `csv:"trip_distance"`
	PickupLongitude  string `csv:"pickup_longitude"`
	PickupLatitude   string `csv:"pickup_latitude"`
	DropoffLongitude string `csv:"dropoff_longitude"`
	DropoffLatitude  string `csv:"dropoff_latitude"`
	PaymentType      string `csv:"payment_type"`
	FareAmount       string `csv:"fare_amount"`
	Surcharge        string `csv:"surcharge"`
	MTATax           string `csv:"mta_tax"`
	TipAmount        string `csv:"tip_amount"`
	TollsAmount      string `csv:"tolls_amount"`
	TotalAmount      string `csv:"total_amount"`
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// tripReader skips whitespace-only lines and enforces the column count
// itself, so that such lines never reach the field-count check.
type tripReader struct {
	*csv.Reader
}

func (r tripReader) Read() ([]string, error) {
	for {
		record, err := r.Reader.Read()
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if len(record) != len(taxiload.Columns) {
			line, _ := r.Reader.FieldPos(0)
			return nil, &csv.ParseError{StartLine: line, Line: line, Err: csv.ErrFieldCount}
		}
		return record, nil
	}
}

// parsePayload decodes a headerless 17-column CSV payload.
// Blank and whitespace-only lines are skipped. A stray quote inside an
// unquoted cell is kept as text. Any row with a different column count fails
// the whole payload.
func parsePayload(payload []byte) ([]rawTrip, error) {
	payload = bytes.TrimPrefix(payload, utf8BOM)
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8 (at byte %d)", taxiload.ErrParse, firstInvalidUTF8(payload))
	}

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	dec, err := csvutil.NewDecoder(tripReader{reader}, taxiload.Columns...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", taxiload.ErrParse, err)
	}

	var rows []rawTrip
	for {
		var row rawTrip
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, describeParseError(err)
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows to parse", taxiload.ErrParse)
	}

	return rows, nil
}

func describeParseError(err error) error {
	var csvErr *csv.ParseError
	if errors.As(err, &csvErr) && errors.Is(csvErr.Err, csv.ErrFieldCount) {
		return fmt.Errorf("%w: line %d: expected %d columns: %w",
			taxiload.ErrParse, csvErr.StartLine, len(taxiload.Columns), err)
	}
	return fmt.Errorf("%w: %w", taxiload.ErrParse, err)
}

func firstInvalidUTF8(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return -1
}
