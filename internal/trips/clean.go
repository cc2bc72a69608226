package trips

import (
	"database/sql"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// missingTokens are cell values read as "absent" in addition to the empty cell.
var missingTokens = map[string]struct{}{
	"#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {},
	"N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

func isMissing(cell string) bool {
	if cell == "" {
		return true
	}
	_, ok := missingTokens[cell]
	return ok
}

// parseTimestamp coerces a "MM/DD/YYYY HH:MM" cell. Anything else is null.
func parseTimestamp(cell string) sql.NullTime {
	if isMissing(cell) {
		return sql.NullTime{}
	}
	t, err := time.Parse(taxiload.InputDateLayout, cell)
	if err != nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

// parseNumber coerces a numeric cell. Non-numeric, NaN and absent cells are null.
func parseNumber(cell string) sql.NullFloat64 {
	if isMissing(cell) {
		return sql.NullFloat64{}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
	if err != nil || math.IsNaN(f) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func passthrough(cell string) sql.NullString {
	if isMissing(cell) {
		return sql.NullString{}
	}
	return sql.NullString{String: cell, Valid: true}
}

func orDefault(cell, def string, counter *int) string {
	if isMissing(cell) {
		*counter++
		return def
	}
	return cell
}

func floatOrZero(v sql.NullFloat64, counter *int) float64 {
	if !v.Valid {
		*counter++
		return 0.0
	}
	return v.Float64
}

// coerced holds a row after the typing pass. Fare and distance may still be null.
type coerced struct {
	raw          rawTrip
	pickup       sql.NullTime
	dropoff      sql.NullTime
	fareAmount   sql.NullFloat64
	tripDistance sql.NullFloat64
}

// coerce is the first cleaning pass: column typing only.
func coerce(rows []rawTrip) []coerced {
	out := make([]coerced, len(rows))
	for i, r := range rows {
		out[i] = coerced{
			raw:          r,
			pickup:       parseTimestamp(r.PickupDatetime),
			dropoff:      parseTimestamp(r.DropoffDatetime),
			fareAmount:   parseNumber(r.FareAmount),
			tripDistance: parseNumber(r.TripDistance),
		}
	}
	return out
}

// fillDefaults is the second cleaning pass. Only medallion, hack_license,
// payment_type, fare_amount and trip_distance receive defaults; null
// timestamps are left for the writer.
func fillDefaults(rows []coerced, stats *taxiload.CleaningStats) []taxiload.TripRecord {
	out := make([]taxiload.TripRecord, len(rows))
	for i, c := range rows {
		r := c.raw
		if !c.pickup.Valid {
			stats.NullPickup++
		}
		if !c.dropoff.Valid {
			stats.NullDropoff++
		}

		out[i] = taxiload.TripRecord{
			Medallion:        orDefault(r.Medallion, taxiload.UnknownIdentifier, &stats.DefaultedMedallion),
			HackLicense:      orDefault(r.HackLicense, taxiload.UnknownIdentifier, &stats.DefaultedHackLicense),
			PickupDatetime:   c.pickup,
			DropoffDatetime:  c.dropoff,
			TripTimeInSecs:   passthrough(r.TripTimeInSecs),
			TripDistance:     floatOrZero(c.tripDistance, &stats.DefaultedDistance),
			PickupLongitude:  passthrough(r.PickupLongitude),
			PickupLatitude:   passthrough(r.PickupLatitude),
			DropoffLongitude: passthrough(r.DropoffLongitude),
			DropoffLatitude:  passthrough(r.DropoffLatitude),
			PaymentType:      orDefault(r.PaymentType, taxiload.UnknownPaymentType, &stats.DefaultedPaymentType),
			FareAmount:       floatOrZero(c.fareAmount, &stats.DefaultedFareAmount),
			Surcharge:        passthrough(r.Surcharge),
			MTATax:           passthrough(r.MTATax),
			TipAmount:        passthrough(r.TipAmount),
			TollsAmount:      passthrough(r.TollsAmount),
			TotalAmount:      passthrough(r.TotalAmount),
		}
	}
	return out
}
