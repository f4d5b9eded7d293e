package domain

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
)

// BookingRequest is the entity submitted by a customer through the booking
// form. Attachment contents arrive base64-encoded and stay that way until
// they are handed to the email provider.
type BookingRequest struct {
	Trailer     string `json:"trailer"`
	StartDate   string `json:"startDate"` // yyyy-mm-dd
	EndDate     string `json:"endDate"`   // yyyy-mm-dd
	PickupHour  *int   `json:"pickupHour,omitempty"`
	DropoffHour *int   `json:"dropoffHour,omitempty"`

	FirstName         string `json:"firstName"`
	LastName          string `json:"lastName"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	DOB               string `json:"dob"`
	Reason            string `json:"reason"`
	TrailerExperience string `json:"trailerExperience"`

	DriversLicense           string `json:"driversLicense,omitempty"`
	DriversLicenseFilename   string `json:"driversLicenseFilename,omitempty"`
	ProofOfInsurance         string `json:"proofOfInsurance,omitempty"`
	ProofOfInsuranceFilename string `json:"proofOfInsuranceFilename,omitempty"`

	CreatedAt string `json:"createdAt,omitempty"`
}

// MissingFields returns the names of required fields that are absent.
// An empty result means the booking is complete enough to be priced.
func (b *BookingRequest) MissingFields() []string {
	var missing []string
	if b.Trailer == "" {
		missing = append(missing, "trailer")
	}
	if b.StartDate == "" {
		missing = append(missing, "startDate")
	}
	if b.EndDate == "" {
		missing = append(missing, "endDate")
	}
	if b.PickupHour == nil {
		missing = append(missing, "pickupHour")
	}
	if b.DropoffHour == nil {
		missing = append(missing, "dropoffHour")
	}
	if b.FirstName == "" {
		missing = append(missing, "firstName")
	}
	if b.LastName == "" {
		missing = append(missing, "lastName")
	}
	if b.DOB == "" {
		missing = append(missing, "dob")
	}
	if b.Reason == "" {
		missing = append(missing, "reason")
	}
	return missing
}

// HasDriversLicense reports whether a driver's license attachment is present
func (b *BookingRequest) HasDriversLicense() bool {
	return b.DriversLicense != "" && b.DriversLicenseFilename != ""
}

// HasProofOfInsurance reports whether an insurance attachment is present
func (b *BookingRequest) HasProofOfInsurance() bool {
	return b.ProofOfInsurance != "" && b.ProofOfInsuranceFilename != ""
}

// WithoutAttachments returns a copy with attachment payloads stripped.
// The copy is what travels through checkout-session metadata, where the
// provider's size limit rules out binary blobs.
func (b *BookingRequest) WithoutAttachments() *BookingRequest {
	copy := *b
	copy.DriversLicense = ""
	copy.DriversLicenseFilename = ""
	copy.ProofOfInsurance = ""
	copy.ProofOfInsuranceFilename = ""
	return &copy
}

// FormatHour renders a wall-clock hour as a 12-hour time, e.g. 13 → "1:00 PM"
func FormatHour(hour int) string {
	period := "AM"
	if hour >= 12 {
		period = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:00 %s", display, period)
}

// PersistedBooking is a booking plus the fields owned by the record store:
// the document identifier and the server-assigned creation timestamp.
// Records are immutable after creation.
type PersistedBooking struct {
	ID        string         `json:"id"`
	Booking   BookingRequest `json:"booking"`
	Status    BookingStatus  `json:"status"`
	Tier      string         `json:"tier"`
	Breakdown string         `json:"breakdown"`
	Price     int64          `json:"price"` // whole dollars
	PaymentID string         `json:"paymentId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
