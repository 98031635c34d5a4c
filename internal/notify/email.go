package notify

import (
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"chama-backend/internal/domain/group"
)

// SMTPConfig holds the outgoing mail settings. An empty Host disables
// sending entirely.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Sender   string
	// Domain builds the recipient address as <user id>@<Domain> until member
	// profiles carry a real email address.
	Domain string
}

// Mailer delivers penalty notices over SMTP. It satisfies penalty.Notifier.
type Mailer struct {
	cfg SMTPConfig
	log *logrus.Logger
}

func NewMailer(cfg SMTPConfig, log *logrus.Logger) *Mailer {
	if log == nil {
		log = logrus.New()
	}
	return &Mailer{cfg: cfg, log: log}
}

// Enabled reports whether SMTP is configured at all.
func (m *Mailer) Enabled() bool { return m.cfg.Host != "" }

func (m *Mailer) PenaltyApplied(groupName, userID string, penaltyType group.PenaltyType, amount decimal.Decimal) error {
	if !m.Enabled() {
		m.log.WithField("user_id", userID).Debug("smtp not configured, skipping penalty notice")
		return nil
	}

	e := email.NewEmail()
	e.From = m.cfg.Sender
	e.To = []string{fmt.Sprintf("%s@%s", userID, m.cfg.Domain)}
	e.Subject = "Penalty Applied to Your Group Account"

	body := fmt.Sprintf(
		"Dear member,\n\n"+
			"A %s penalty of %s has been applied to your account in group %q.\n"+
			"Please settle the amount at the next meeting to keep your account in good standing.\n"+
			"\nBest regards,\n%s",
		penaltyType, amount.StringFixed(2), groupName, groupName,
	)
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := e.Send(addr, auth); err != nil {
		m.log.Errorf("Failed to send penalty notice to %s: %v", userID, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.log.Infof("Penalty notice sent to %s: %s", userID, e.Subject)
	return nil
}
