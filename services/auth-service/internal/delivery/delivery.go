package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// MailSender sends a plain text email. *mailer.Mailer satisfies it.
type MailSender interface {
	SendSimple(to []string, subject, body string) error
}

// Inbox emails every issued code to a developer inbox instead of texting the phone.
type Inbox struct {
	sender  MailSender
	address string
	logger  *zerolog.Logger
}

func NewInbox(sender MailSender, address string, logger *zerolog.Logger) *Inbox {
	return &Inbox{sender: sender, address: address, logger: logger}
}

func (d *Inbox) Deliver(ctx context.Context, phone, code string, expiresIn time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("OTP for %s", phone)
	body := fmt.Sprintf(
		"Your verification code for %s is %s. It expires in %s.",
		phone, code, expiresIn.Round(time.Second),
	)

	if err := d.sender.SendSimple([]string{d.address}, subject, body); err != nil {
		return err
	}

	d.logger.Debug().Str("phone", phone).Str("inbox", d.address).Msg("otp code mailed to dev inbox")
	return nil
}

// Log writes issued codes to the service log. Meant for local development only.
type Log struct {
	logger *zerolog.Logger
}

func NewLog(logger *zerolog.Logger) *Log {
	return &Log{logger: logger}
}

func (d *Log) Deliver(_ context.Context, phone, code string, expiresIn time.Duration) error {
	d.logger.Info().
		Str("phone", phone).
		Str("code", code).
		Dur("expires_in", expiresIn).
		Msg("otp code issued")
	return nil
}
