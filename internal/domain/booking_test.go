package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func completeBooking() *BookingRequest {
	return &BookingRequest{
		Trailer:     "5 x 10 Utility Trailer",
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-02",
		PickupHour:  intPtr(9),
		DropoffHour: intPtr(9),
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		Phone:       "555-0100",
		DOB:         "1990-04-12",
		Reason:      "Moving",
	}
}

func TestMissingFields(t *testing.T) {
	t.Run("complete booking has none", func(t *testing.T) {
		assert.Empty(t, completeBooking().MissingFields())
	})

	t.Run("each absent field is named", func(t *testing.T) {
		b := completeBooking()
		b.Trailer = ""
		b.LastName = ""
		b.DOB = ""
		assert.ElementsMatch(t, []string{"trailer", "lastName", "dob"}, b.MissingFields())
	})

	t.Run("nil hours are missing, hour zero is not", func(t *testing.T) {
		b := completeBooking()
		b.PickupHour = nil
		b.DropoffHour = intPtr(0)
		assert.Equal(t, []string{"pickupHour"}, b.MissingFields())
	})

	t.Run("email and phone are optional", func(t *testing.T) {
		b := completeBooking()
		b.Email = ""
		b.Phone = ""
		assert.Empty(t, b.MissingFields())
	})
}

func TestAttachmentPresence(t *testing.T) {
	b := completeBooking()
	assert.False(t, b.HasDriversLicense())
	assert.False(t, b.HasProofOfInsurance())

	b.DriversLicense = "aGVsbG8="
	assert.False(t, b.HasDriversLicense(), "payload without filename does not count")
	b.DriversLicenseFilename = "license.jpg"
	assert.True(t, b.HasDriversLicense())

	b.ProofOfInsurance = "aGVsbG8="
	b.ProofOfInsuranceFilename = "insurance.pdf"
	assert.True(t, b.HasProofOfInsurance())
}

func TestWithoutAttachments(t *testing.T) {
	b := completeBooking()
	b.DriversLicense = "aGVsbG8="
	b.DriversLicenseFilename = "license.jpg"
	b.ProofOfInsurance = "d29ybGQ="
	b.ProofOfInsuranceFilename = "insurance.pdf"

	stripped := b.WithoutAttachments()
	assert.Empty(t, stripped.DriversLicense)
	assert.Empty(t, stripped.DriversLicenseFilename)
	assert.Empty(t, stripped.ProofOfInsurance)
	assert.Empty(t, stripped.ProofOfInsuranceFilename)
	assert.Equal(t, b.Trailer, stripped.Trailer)
	assert.Equal(t, b.FirstName, stripped.FirstName)

	// The original keeps its payloads
	assert.Equal(t, "aGVsbG8=", b.DriversLicense)
}

func TestFormatHour(t *testing.T) {
	cases := map[int]string{
		0:  "12:00 AM",
		1:  "1:00 AM",
		11: "11:00 AM",
		12: "12:00 PM",
		13: "1:00 PM",
		23: "11:00 PM",
	}
	for hour, want := range cases {
		assert.Equal(t, want, FormatHour(hour), "hour %d", hour)
	}
}
