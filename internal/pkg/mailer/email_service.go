package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendResearchCompleted(toEmail, notebookTitle, notebookURL string) error
	SendResearchFailed(toEmail, notebookTitle string) error
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

func (s *emailService) SendResearchCompleted(toEmail, notebookTitle, notebookURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your research notebook is ready")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Research completed</h2>
			<p>Your notebook <strong>%s</strong> has finished processing.</p>
			<p><a href="%s" style="color: #4CAF50;">Open the notebook</a></p>
		</div>
	`, notebookTitle, notebookURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send completion mail to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Completion mail sent to %s\n", toEmail)
	return nil
}

func (s *emailService) SendResearchFailed(toEmail, notebookTitle string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Research failed")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Research failed</h2>
			<p>Processing of notebook <strong>%s</strong> did not complete.</p>
			<p>Please try again from the app.</p>
		</div>
	`, notebookTitle)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send failure mail to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Failure mail sent to %s\n", toEmail)
	return nil
}
