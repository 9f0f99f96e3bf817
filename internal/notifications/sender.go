package notifications

import (
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	log "github.com/sirupsen/logrus"
)

type Sender struct {
	client *sendgrid.Client
}

func NewSender(client *sendgrid.Client) *Sender {
	return &Sender{
		client: client,
	}
}

// SendConfirmationEmail asks a new student to confirm their address before
// their session becomes active.
func (s *Sender) SendConfirmationEmail(destinationEmail, name string) error {
	from := mail.NewEmail("أكاديمية الدورات", "no-reply@academy.example.com")
	subject := "تأكيد البريد الإلكتروني"
	to := mail.NewEmail(name, destinationEmail)
	plainTextContent := "مرحباً " + name + "، يرجى تأكيد بريدك الإلكتروني لتفعيل حسابك."
	htmlContent := "<strong>مرحباً " + name + "!</strong> يرجى تأكيد بريدك الإلكتروني لتفعيل حسابك."
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)
	response, err := s.client.Send(message)
	if err != nil {
		return err
	}

	if response.StatusCode != 202 {
		log.Errorf("failure sending confirmation email with sendgrid: %v", response.Body)
	}

	return nil
}
