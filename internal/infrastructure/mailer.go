package infrastructure

import (
	"fmt"
	"log"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends appointment status emails through SendGrid. With no API
// key configured it is a silent no-op; a failed send is logged and never
// fails the operation that triggered it.
type Mailer struct {
	apiKey string
	sender string
}

func NewMailer(apiKey, sender string) *Mailer {
	return &Mailer{apiKey: apiKey, sender: sender}
}

func (m *Mailer) SendStatusUpdate(toEmail, toName, status string, date time.Time) {
	if m.apiKey == "" {
		return
	}

	from := mail.NewEmail("Astrologer Bookings", m.sender)
	to := mail.NewEmail(toName, toEmail)
	subject := "Your appointment was " + status

	plain := fmt.Sprintf("Your appointment on %s is now %s.", date.Format("Mon, 02 Jan 2006 15:04"), status)
	html := fmt.Sprintf("<strong>Your appointment on %s is now %s.</strong>", date.Format("Mon, 02 Jan 2006 15:04"), status)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(m.apiKey)
	if _, err := client.Send(message); err != nil {
		log.Println("Failed to send status email:", err)
	}
}
