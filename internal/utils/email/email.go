package email

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/cashlane/advance-service/internal/config"
	"github.com/cashlane/advance-service/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
	}
}

// SendDecisionNotification tells the user the outcome of their advance request
func (s *Sender) SendDecisionNotification(to, username string, d *models.Decision) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	if d.Approved {
		e.Subject = "Your Cash Advance Is Approved"
	} else {
		e.Subject = "Your Cash Advance Request"
	}

	body := fmt.Sprintf("Dear %s,\n\n", username)
	if d.Approved {
		body += fmt.Sprintf(
			"Your advance of $%.2f has been approved (%s, limit $%.2f).\n"+
				"The amount will be disbursed to your account shortly.\n",
			float64(d.AmountGrantedCents)/100, d.Tier, float64(d.CreditLimitCents)/100,
		)
	} else {
		body += "We could not approve an advance right now.\n"
		if len(d.Reasons) > 0 {
			body += fmt.Sprintf("Reason: %s\n", d.Reasons[len(d.Reasons)-1])
		}
	}
	body += "\nBest regards,\nCashlane"
	e.Text = []byte(body)

	return s.send(e, to)
}

// SendOverdueNotice reminds the user about a missed installment
func (s *Sender) SendOverdueNotice(to, username string, inst models.Installment) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Overdue Installment Notification"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your installment of $%.2f was due on %s and is now overdue.\n"+
			"Please make the payment as soon as possible.\n"+
			"\nBest regards,\nCashlane",
		username, float64(inst.AmountCents)/100, inst.DueDate.Format("2006-01-02"),
	)
	e.Text = []byte(body)

	return s.send(e, to)
}

func (s *Sender) send(e *email.Email, to string) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := e.Send(addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
