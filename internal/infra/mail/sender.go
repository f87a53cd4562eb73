package mail

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Dialer is the part of *gomail.Dialer the sender uses.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, baseURL string) *EmailSender {
	return &EmailSender{
		From:    from,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Dialer:  gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) SendLeadAssigned(to, assigneeName, leadName, leadID string) error {
	return s.send(to, "lead_assigned.html",
		fmt.Sprintf("New lead assigned: %s", leadName),
		s.data(assigneeName, leadName, leadID))
}

func (s *EmailSender) SendFollowUpReminder(to, assigneeName, leadName, leadID string) error {
	return s.send(to, "follow_up_reminder.html",
		fmt.Sprintf("Follow-up due: %s", leadName),
		s.data(assigneeName, leadName, leadID))
}

func (s *EmailSender) data(assigneeName, leadName, leadID string) LeadEmailData {
	if assigneeName == "" {
		assigneeName = "there"
	}
	return LeadEmailData{
		AssigneeName: assigneeName,
		LeadName:     leadName,
		LeadURL:      s.BaseURL + "/leads/" + leadID,
	}
}

func (s *EmailSender) send(to, tmpl, subject string, data LeadEmailData) error {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, tmpl, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body.String())

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}

	return nil
}
