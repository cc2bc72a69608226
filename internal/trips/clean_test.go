package trips

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/taxiload/pkg/taxiload"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in    string
		want  time.Time
		valid bool
	}{
		{"01/15/2013 09:05", time.Date(2013, 1, 15, 9, 5, 0, 0, time.UTC), true},
		{"1/5/2013 9:05", time.Date(2013, 1, 5, 9, 5, 0, 0, time.UTC), true},
		{"12/31/2013 23:59", time.Date(2013, 12, 31, 23, 59, 0, 0, time.UTC), true},
		{"2013-01-15 09:05:00", time.Time{}, false},
		{"01/15/2013 09:05:30", time.Time{}, false},
		{"13/01/2013 09:05", time.Time{}, false},
		{" 01/15/2013 09:05", time.Time{}, false},
		{"NaN", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		got := parseTimestamp(tt.in)
		assert.Equal(t, tt.valid, got.Valid, "parseTimestamp(%q)", tt.in)
		if tt.valid {
			assert.Equal(t, tt.want, got.Time, "parseTimestamp(%q)", tt.in)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"6.5", 6.5, true},
		{" 2 ", 2, true},
		{"-73.978165", -73.978165, true},
		{"1e3", 1000, true},
		{"abc", 0, false},
		{"nan", 0, false},
		{"NaN", 0, false},
		{"N/A", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got := parseNumber(tt.in)
		assert.Equal(t, tt.valid, got.Valid, "parseNumber(%q)", tt.in)
		assert.Equal(t, tt.want, got.Float64, "parseNumber(%q)", tt.in)
	}
}

func TestIsMissing(t *testing.T) {
	for _, tok := range []string{"", "NA", "N/A", "NULL", "null", "NaN", "nan", "None", "#N/A", "<NA>"} {
		assert.True(t, isMissing(tok), "%q should be missing", tok)
	}
	for _, tok := range []string{"0", "UNKNOWN", "na ", "none", "CSH"} {
		assert.False(t, isMissing(tok), "%q should be present", tok)
	}
}

func TestFillDefaults_OnlyDefaultsNamedColumns(t *testing.T) {
	var stats taxiload.CleaningStats
	records := fillDefaults(coerce([]rawTrip{{}}), &stats)
	rec := records[0]

	assert.Equal(t, "UNKNOWN", rec.Medallion)
	assert.Equal(t, "UNKNOWN", rec.HackLicense)
	assert.Equal(t, "UNK", rec.PaymentType)
	assert.Zero(t, rec.FareAmount)
	assert.Zero(t, rec.TripDistance)
	assert.False(t, rec.PickupDatetime.Valid)
	assert.False(t, rec.DropoffDatetime.Valid)
	assert.False(t, rec.TripTimeInSecs.Valid)
	assert.False(t, rec.TotalAmount.Valid)

	assert.Equal(t, taxiload.CleaningStats{
		DefaultedMedallion:   1,
		DefaultedHackLicense: 1,
		DefaultedPaymentType: 1,
		DefaultedFareAmount:  1,
		DefaultedDistance:    1,
		NullPickup:           1,
		NullDropoff:          1,
	}, stats)
}
