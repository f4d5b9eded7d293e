package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"trailer-booking-backend/internal/config"
	"trailer-booking-backend/internal/domain"
	"trailer-booking-backend/internal/logger"
	"trailer-booking-backend/internal/pricing"
)

type sendGridEmailService struct {
	apiKey    string
	fromEmail string
	fromName  string
	recipient string
}

// NewEmailService builds the SendGrid-backed email collaborator. All
// notifications go to the configured recipient (the business owner).
func NewEmailService(cfg config.SendGridConfig, recipient string) EmailService {
	return &sendGridEmailService{
		apiKey:    cfg.APIKey,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		recipient: recipient,
	}
}

func (s *sendGridEmailService) SendPendingBookingNotification(ctx context.Context, booking *domain.BookingRequest, quote *pricing.Quote) error {
	subject := fmt.Sprintf("New Booking (payment pending): %s - %s %s",
		booking.Trailer, booking.FirstName, booking.LastName)

	body := fmt.Sprintf(`NEW TRAILER BOOKING RECEIVED (PAYMENT PENDING)

%s
PRICING:
- Pricing Tier: %s
- Total Hours: %.0f
- Suggested Price: $%d
- Calculation: %s

%s`,
		bookingDetails(booking), quote.Tier, quote.TotalHours, quote.Price, quote.Breakdown,
		customerDetails(booking))

	return s.send(ctx, "SendPendingBookingNotification", subject, body, attachmentsFor(booking))
}

func (s *sendGridEmailService) SendConfirmedBookingNotification(ctx context.Context, booking *domain.BookingRequest, payment *domain.PaymentInfo) error {
	subject := fmt.Sprintf("PAID BOOKING: %s - %s %s ($%d)",
		booking.Trailer, booking.FirstName, booking.LastName, payment.Amount)

	body := fmt.Sprintf(`NEW TRAILER BOOKING RECEIVED (PAID)

%s
PAYMENT CONFIRMED:
- Amount Paid: $%d
- Payment ID: %s
- Pricing Tier: %s
- Calculation: %s

%s`,
		bookingDetails(booking), payment.Amount, payment.PaymentID, payment.Tier, payment.Breakdown,
		customerDetails(booking))

	return s.send(ctx, "SendConfirmedBookingNotification", subject, body, attachmentsFor(booking))
}

func (s *sendGridEmailService) SendReviewNotification(ctx context.Context, review *domain.Review) error {
	subject := fmt.Sprintf("New Review Submitted: %d stars from %s", review.Rating, review.Name)

	body := fmt.Sprintf(`NEW CUSTOMER REVIEW SUBMITTED

- Name: %s
- Email: %s
- Rating: %d/5
- Trailer: %s

%s

Approve it by adding it to the reviews list in the configuration.`,
		review.Name, review.Email, review.Rating, review.Trailer, review.Review)

	return s.send(ctx, "SendReviewNotification", subject, body, nil)
}

func (s *sendGridEmailService) SendAdminNotification(ctx context.Context, subject, body string) error {
	return s.send(ctx, "SendAdminNotification", subject, body, nil)
}

func (s *sendGridEmailService) send(ctx context.Context, operation, subject, body string, attachments []*mail.Attachment) error {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(s.fromName, s.fromEmail))
	message.Subject = subject

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail("", s.recipient))
	message.AddPersonalizations(personalization)
	message.AddContent(mail.NewContent("text/plain", body))
	for _, attachment := range attachments {
		message.AddAttachment(attachment)
	}

	logger.ExternalServiceCall("sendgrid", operation, "to", s.recipient)
	client := sendgrid.NewSendClient(s.apiKey)
	response, err := client.SendWithContext(ctx, message)
	logger.ExternalServiceResult("sendgrid", operation, err)
	if err != nil {
		return &domain.CollaboratorError{Service: "sendgrid", Err: err}
	}
	if response.StatusCode >= 400 {
		return &domain.CollaboratorError{
			Service: "sendgrid",
			Err:     fmt.Errorf("status %d: %s", response.StatusCode, response.Body),
		}
	}
	return nil
}

// attachmentsFor converts the booking's inline documents to mail
// attachments. Contents are already base64, which is what SendGrid expects.
func attachmentsFor(booking *domain.BookingRequest) []*mail.Attachment {
	var attachments []*mail.Attachment
	if booking.HasDriversLicense() {
		a := mail.NewAttachment()
		a.SetContent(booking.DriversLicense)
		a.SetFilename(booking.DriversLicenseFilename)
		a.SetType("application/octet-stream")
		a.SetDisposition("attachment")
		attachments = append(attachments, a)
	}
	if booking.HasProofOfInsurance() {
		a := mail.NewAttachment()
		a.SetContent(booking.ProofOfInsurance)
		a.SetFilename(booking.ProofOfInsuranceFilename)
		a.SetType("application/octet-stream")
		a.SetDisposition("attachment")
		attachments = append(attachments, a)
	}
	return attachments
}

func bookingDetails(booking *domain.BookingRequest) string {
	pickup, dropoff := "N/A", "N/A"
	if booking.PickupHour != nil {
		pickup = domain.FormatHour(*booking.PickupHour)
	}
	if booking.DropoffHour != nil {
		dropoff = domain.FormatHour(*booking.DropoffHour)
	}
	return fmt.Sprintf(`BOOKING DETAILS:
- Trailer: %s
- Start Date: %s
- End Date: %s
- Pickup Time: %s
- Dropoff Time: %s
`, booking.Trailer, booking.StartDate, booking.EndDate, pickup, dropoff)
}

func customerDetails(booking *domain.BookingRequest) string {
	experience := "No, I haven't. Can I get a walkthrough?"
	if strings.EqualFold(booking.TrailerExperience, "yes") {
		experience = "Yes, I've hauled a trailer before"
	}

	var docs []string
	if booking.HasDriversLicense() {
		docs = append(docs, "driver's license photo")
	}
	if booking.HasProofOfInsurance() {
		docs = append(docs, "proof of insurance")
	}
	attached := "none"
	if len(docs) > 0 {
		attached = strings.Join(docs, ", ")
	}

	return fmt.Sprintf(`CUSTOMER INFORMATION:
- First Name: %s
- Last Name: %s
- Email: %s
- Phone: %s
- Date of Birth: %s
- What are you hauling: %s
- Trailer Experience: %s
- Submitted At: %s
- Attachments: %s`,
		booking.FirstName, booking.LastName, booking.Email, booking.Phone,
		booking.DOB, booking.Reason, experience, booking.CreatedAt, attached)
}
