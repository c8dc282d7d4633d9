// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendTicketClosed(toEmail, ticketSubject string) error
	SendTicketAssigned(toEmail, ticketSubject string) error
	SendTicketEscalated(toEmail, ticketSubject string) error
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

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send '%s' to %s: %v\n", subject, toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] '%s' sent to %s\n", subject, toEmail)
	return nil
}

func (s *emailService) SendTicketClosed(toEmail, ticketSubject string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your ticket has been resolved</h2>
			<p>The ticket <strong>%s</strong> is now closed.</p>
			<p>If your issue is not fully resolved, reply to reopen the conversation.</p>
		</div>
	`, ticketSubject)

	return s.send(toEmail, "Your Support Ticket Was Closed", body)
}

func (s *emailService) SendTicketAssigned(toEmail, ticketSubject string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A ticket was assigned to you</h2>
			<p>The ticket <strong>%s</strong> is now waiting for your attention.</p>
		</div>
	`, ticketSubject)

	return s.send(toEmail, "New Ticket Assignment", body)
}

func (s *emailService) SendTicketEscalated(toEmail, ticketSubject string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your ticket was escalated</h2>
			<p>The ticket <strong>%s</strong> has been escalated to a senior agent.</p>
			<p>We will get back to you as soon as possible.</p>
		</div>
	`, ticketSubject)

	return s.send(toEmail, "Your Support Ticket Was Escalated", body)
}
