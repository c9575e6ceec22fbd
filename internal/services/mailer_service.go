package services

import (
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/openlistings/backend/internal/config"
	"github.com/openlistings/backend/internal/utils"
)

// ---------------------------------------------------------------------
// MailerService interface
// ---------------------------------------------------------------------

// MailerService delivers transactional email and SMS. Delivery is
// fire-and-forget from the caller's perspective; failures surface as
// ErrExternalServiceFailure.
type MailerService interface {
	SendVerificationEmail(toEmail, code string) error
	SendVerificationSMS(toPhone, code string) error
	SendListingApprovedEmail(toEmail, listingTitle string) error
	SendListingRejectedEmail(toEmail, listingTitle, reason string) error
	SendInquiryEmail(toEmail, listingTitle, message string) error
}

// ---------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------

type mailerService struct {
	cfg            *config.Config
	sendgridClient *sendgrid.Client
	twilioClient   *twilio.RestClient
}

func NewMailerService(cfg *config.Config) MailerService {
	var twilioClient *twilio.RestClient
	if cfg.TwilioAccountSID != "" {
		twilioClient = twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.TwilioAccountSID,
			Password: cfg.TwilioAuthToken,
		})
	}
	return &mailerService{
		cfg:            cfg,
		sendgridClient: sendgrid.NewSendClient(cfg.SendGridAPIKey),
		twilioClient:   twilioClient,
	}
}

func (s *mailerService) SendVerificationEmail(toEmail, code string) error {
	subject := "Your verification code"
	plain := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, utils.VerificationCodeTTLMinutes)
	html := fmt.Sprintf(verificationEmailHTML, code, time.Now().Year())
	return s.sendEmail(toEmail, subject, plain, html)
}

func (s *mailerService) SendListingApprovedEmail(toEmail, listingTitle string) error {
	subject := "Your listing is live"
	plain := fmt.Sprintf("Good news! Your listing %q has been approved and is now visible to everyone.", listingTitle)
	html := fmt.Sprintf(listingApprovedEmailHTML, listingTitle, time.Now().Year())
	return s.sendEmail(toEmail, subject, plain, html)
}

func (s *mailerService) SendListingRejectedEmail(toEmail, listingTitle, reason string) error {
	subject := "Your listing needs changes"
	plain := fmt.Sprintf("Your listing %q was not approved. Reason: %s. Edit and resubmit it from your dashboard.", listingTitle, reason)
	html := fmt.Sprintf(listingRejectedEmailHTML, listingTitle, reason, time.Now().Year())
	return s.sendEmail(toEmail, subject, plain, html)
}

func (s *mailerService) SendInquiryEmail(toEmail, listingTitle, message string) error {
	subject := fmt.Sprintf("New inquiry about %q", listingTitle)
	plain := fmt.Sprintf("You received a new inquiry about %q:\n\n%s", listingTitle, message)
	html := fmt.Sprintf(inquiryEmailHTML, listingTitle, message, time.Now().Year())
	return s.sendEmail(toEmail, subject, plain, html)
}

func (s *mailerService) sendEmail(toEmail, subject, plain, html string) error {
	if s.cfg.SendGridAPIKey == "" || s.cfg.LDFlag_SendgridFromEmail == "" {
		utils.Logger.WithField("to", toEmail).Info("email delivery disabled; skipping send")
		return nil
	}

	from := mail.NewEmail(utils.OrganizationName, s.cfg.LDFlag_SendgridFromEmail)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)
	if s.cfg.LDFlag_SendgridSandboxMode {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		message.MailSettings = ms
	}

	if _, err := s.sendgridClient.Send(message); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send email to %s via SendGrid", toEmail)
		return fmt.Errorf("%w: failed to send email via sendgrid: %v", utils.ErrExternalServiceFailure, err)
	}
	return nil
}

func (s *mailerService) SendVerificationSMS(toPhone, code string) error {
	if s.twilioClient == nil || s.cfg.LDFlag_TwilioFromPhone == "" {
		utils.Logger.WithField("to", toPhone).Info("SMS delivery disabled; skipping send")
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(toPhone)
	params.SetFrom(s.cfg.LDFlag_TwilioFromPhone)
	params.SetBody(fmt.Sprintf("Your %s verification code is %s", utils.OrganizationName, code))

	if _, err := s.twilioClient.Api.CreateMessage(params); err != nil {
		utils.Logger.WithError(err).Errorf("Failed to send verification SMS to %s via Twilio", toPhone)
		return fmt.Errorf("%w: failed to send sms via twilio: %v", utils.ErrExternalServiceFailure, err)
	}
	return nil
}
