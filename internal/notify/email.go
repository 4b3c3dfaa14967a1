package notify

import (
	"context"
	"fmt"

	"skillswap/backend/internal/localization"

	"gopkg.in/gomail.v2"
)

// MailDialer is the part of *gomail.Dialer the notifier needs.
type MailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier mails request notifications to a single configured inbox;
// guest users have no addresses of their own.
type EmailNotifier struct {
	Dialer MailDialer
	From   string
	To     string
	Lang   string
	Texts  *localization.Localizer
}

// NewEmailNotifier builds an SMTP notifier.
func NewEmailNotifier(host string, port int, username, password, from, to, lang string, texts *localization.Localizer) *EmailNotifier {
	if texts == nil {
		texts = localization.Default()
	}
	if lang == "" {
		lang = localization.DefaultLanguage
	}
	return &EmailNotifier{
		Dialer: gomail.NewDialer(host, port, username, password),
		From:   from,
		To:     to,
		Lang:   lang,
		Texts:  texts,
	}
}

func (e *EmailNotifier) NotifyRequest(ctx context.Context, n RequestNotification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := n.Params()

	m := gomail.NewMessage()
	m.SetHeader("From", e.From)
	m.SetHeader("To", e.To)
	if n.ReplyTo != "" {
		m.SetHeader("Reply-To", n.ReplyTo)
	}
	m.SetHeader("Subject", e.Texts.Format(e.Lang, localization.KeyRequestEmailSubject, params))
	m.SetBody("text/plain", e.Texts.Format(e.Lang, localization.KeyRequestEmailBody, params))

	if err := e.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("sending request email: %w", err)
	}
	return nil
}
