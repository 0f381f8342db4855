package mailer

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"telecom-support-be/internal/dto"
)

type IEmailService interface {
	SendEscalationAlert(toEmail string, esc *dto.EscalationRecordedMessage) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendEscalationAlert mails the supervisor inbox about a critical
// escalation. Called from the event consumer, never from the request
// path.
func (s *emailService) SendEscalationAlert(toEmail string, esc *dto.EscalationRecordedMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("[CRITICAL] Support escalation in room %s", esc.RoomId))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Critical Support Escalation</h2>
			<p>A conversation was flagged for immediate human attention.</p>
			<ul>
				<li><b>Room:</b> %s</li>
				<li><b>Customer:</b> %s</li>
				<li><b>Priority:</b> %s</li>
				<li><b>Triggered at:</b> %s</li>
			</ul>
			<p><b>Reasons:</b></p>
			<p>%s</p>
		</div>
	`, esc.RoomId, esc.UserName, esc.Priority, esc.TriggeredAt, strings.Join(esc.Reasons, "<br>"))

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send escalation alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Escalation alert sent to %s\n", toEmail)
	return nil
}
