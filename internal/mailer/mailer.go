// Package mailer is the notification sender: a narrow interface consumed
// by the signup flow, with one SMTP implementation. Delivery is synchronous
// and failures are surfaced to the caller; no retry.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

type Sender interface {
	Send(to, subject, body string) error
}

type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPSender builds a sender for the given SMTP address. user/pass are
// optional; when user is empty the connection is unauthenticated.
func NewSMTPSender(addr, from, user, pass string) *SMTPSender {
	var auth smtp.Auth
	if user != "" {
		host := addr
		if i := strings.IndexByte(addr, ':'); i >= 0 {
			host = addr[:i]
		}
		auth = smtp.PlainAuth("", user, pass, host)
	}
	return &SMTPSender{addr: addr, from: from, auth: auth}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.from, to, subject, body)
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}
