package writer

import (
	"database/sql"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

// tuple converts a record into the 17 bind arguments of InsertStatement.
// Strings bind as text, so the server converts passthrough cells to the
// column type and rejects values that do not fit.
func tuple(rec *taxiload.TripRecord) []any {
	return []any{
		rec.Medallion,
		rec.HackLicense,
		timestamp(rec.PickupDatetime),
		timestamp(rec.DropoffDatetime),
		nullable(rec.TripTimeInSecs),
		rec.TripDistance,
		nullable(rec.PickupLongitude),
		nullable(rec.PickupLatitude),
		nullable(rec.DropoffLongitude),
		nullable(rec.DropoffLatitude),
		rec.PaymentType,
		rec.FareAmount,
		nullable(rec.Surcharge),
		nullable(rec.MTATax),
		nullable(rec.TipAmount),
		nullable(rec.TollsAmount),
		nullable(rec.TotalAmount),
	}
}

// timestamp formats a datetime for binding; null becomes FallbackTimestamp.
func timestamp(t sql.NullTime) string {
	if !t.Valid {
		return taxiload.FallbackTimestamp
	}
	return t.Time.Format(taxiload.OutputDateLayout)
}

func nullable(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}
