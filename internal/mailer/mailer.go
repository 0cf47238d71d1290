package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type Mailer struct {
	host string
	port string
	from string
	pass string
	log  *zerolog.Logger
}

func New(host, port, from, pass string, log *zerolog.Logger) *Mailer {
	return &Mailer{host: host, port: port, from: from, pass: pass, log: log}
}

// SendRegistrationReceived confirms a new submission. The wording follows
// the registration type because each category goes through a different
// review track.
func (m *Mailer) SendRegistrationReceived(fullName, recipientEmail, registrationType string) error {
	var subject, body string
	switch registrationType {
	case "anchor-partner":
		subject = "Your partnership registration has been received"
		body = fmt.Sprintf("Hello %s,\n\nThank you for registering as an anchor partner. Our partnerships team will review your submission and get back to you shortly.", fullName)
	case "series-venture":
		subject = "Your venture application has been received"
		body = fmt.Sprintf("Hello %s,\n\nThank you for submitting your venture application. Our selection committee will review your project and contact you with next steps.", fullName)
	default:
		subject = "Your registration has been received"
		body = fmt.Sprintf("Hello %s,\n\nThank you for registering to attend. We will send event details to this address closer to the date.", fullName)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.from, recipientEmail, subject, body,
	)

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.from, m.pass, m.host)

	if err := smtp.SendMail(addr, auth, m.from, []string{recipientEmail}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Msgf("Registration email sent to %s (type: %s)", recipientEmail, registrationType)
	return nil
}
