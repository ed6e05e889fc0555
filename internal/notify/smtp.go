package notify

import (
	"context"
	"fmt"
	"net/smtp"
)

// SMTP sends the confirmation through a plain SMTP relay.
type SMTP struct {
	Host        string
	Port        int
	User        string
	Pass        string
	FromName    string
	FromAddress string
}

// NewSMTP creates an SMTP sender.
func NewSMTP(host string, port int, user, pass, fromName, fromAddress string) *SMTP {
	return &SMTP{
		Host:        host,
		Port:        port,
		User:        user,
		Pass:        pass,
		FromName:    fromName,
		FromAddress: fromAddress,
	}
}

// Send delivers the confirmation over SMTP. The context is accepted for
// interface symmetry; net/smtp has no context support.
func (s *SMTP) Send(_ context.Context, conf Confirmation) error {
	msg := fmt.Sprintf(
		"From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\nBonjour %s,\r\n\r\nVotre inscription aux ateliers suivants est confirmée : %s.\r\n\r\nÀ bientôt !\r\n",
		s.FromName, s.FromAddress, conf.To, Subject, conf.Name, conf.Workshops,
	)
	auth := smtp.PlainAuth("", s.User, s.Pass, s.Host)
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	if err := smtp.SendMail(addr, auth, s.FromAddress, []string{conf.To}, []byte(msg)); err != nil {
		return &Error{Provider: "smtp", Err: err}
	}
	return nil
}
