// Package tools provides helpers used by the servers.
package tools

import (
	"fmt"
	"net"
	"net/smtp"

	"github.com/anyswap/CrossChain-Swaps/params"
	"github.com/jordan-wright/email"
)

var (
	smtpServerURL string
	auth          smtp.Auth
	fromWithName  string
)

// InitEmailConfig init email config
func InitEmailConfig(server string, port int, from, name, password string) {
	smtpServerURL = net.JoinHostPort(server, fmt.Sprintf("%d", port))
	auth = smtp.PlainAuth("", from, password, server)
	if name != "" {
		fromWithName = fmt.Sprintf("%s <%s>", name, from)
	} else {
		fromWithName = from
	}
}

// InitEmail init email from config, returns false if email is not configured
func InitEmail(cfg *params.EmailConfig) bool {
	if cfg == nil || cfg.Server == "" || len(cfg.To) == 0 {
		return false
	}
	InitEmailConfig(cfg.Server, cfg.Port, cfg.From, cfg.FromName, cfg.Password)
	return true
}

// SendEmail send email
func SendEmail(to, cc []string, subject, content string) error {
	e := email.NewEmail()
	e.From = fromWithName
	e.To = to
	e.Cc = cc
	e.Subject = subject
	e.Text = []byte(content)
	return e.Send(smtpServerURL, auth)
}
