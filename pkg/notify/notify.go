// Package notify delivers customer e-mail and SMS notifications.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/keighl/postmark"

	"github.com/Skotchmaster/oss_shop/pkg/config"
	"github.com/Skotchmaster/oss_shop/pkg/logging"
)

type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
	Tag      string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

func NewMailer(cfg config.Config) Mailer {
	if cfg.PostmarkServerToken == "" {
		return LogMailer{}
	}
	return NewPostmarkMailer(cfg.PostmarkServerToken, cfg.MailFrom)
}

type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func NewPostmarkMailer(serverToken, from string) *PostmarkMailer {
	return &PostmarkMailer{
		client: postmark.NewClient(serverToken, ""),
		from:   from,
	}
}

func (m *PostmarkMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("notify: recipient is empty")
	}
	res, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       msg.To,
		Subject:  msg.Subject,
		TextBody: msg.TextBody,
		HtmlBody: msg.HTMLBody,
		Tag:      msg.Tag,
	})
	if err != nil {
		return fmt.Errorf("notify: postmark send: %w", err)
	}
	if res.ErrorCode != 0 {
		return fmt.Errorf("notify: postmark rejected message: %d %s", res.ErrorCode, res.Message)
	}
	logging.FromContext(ctx).Info("email_sent", "to", msg.To, "subject", msg.Subject, "message_id", res.MessageID)
	return nil
}

// LogMailer writes e-mails to the log instead of sending them.
type LogMailer struct{}

func (LogMailer) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return errors.New("notify: recipient is empty")
	}
	logging.FromContext(ctx).Info("email_logged", "to", msg.To, "subject", msg.Subject, "tag", msg.Tag)
	return nil
}

// SMS is a stub: no provider is wired, the message is only logged.
type SMS struct{}

func (SMS) Send(ctx context.Context, phone, text string) {
	if phone == "" {
		return
	}
	logging.FromContext(ctx).Info("sms_stub", "phone", phone, "text", text)
}
