package services

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// EmailGatewaySender delivers passcodes through a carrier email-to-SMS
// gateway: the message goes to <digits>@<gateway domain>.
type EmailGatewaySender struct {
	from          string
	gatewayDomain string
	dialer        *gomail.Dialer
}

func NewEmailGatewaySender(host string, port int, username, password, gatewayDomain string) *EmailGatewaySender {
	return &EmailGatewaySender{
		from:          username,
		gatewayDomain: gatewayDomain,
		dialer:        gomail.NewDialer(host, port, username, password),
	}
}

func (e *EmailGatewaySender) address(phoneNumber string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phoneNumber)
	return digits + "@" + e.gatewayDomain
}

func (e *EmailGatewaySender) Send(_ context.Context, phoneNumber, code string) error {
	m := gomail.NewMessage()

	m.SetHeader("From", e.from)
	m.SetHeader("To", e.address(phoneNumber))
	m.SetHeader("Subject", "Verification code")
	m.SetBody("text/plain", otpMessage(code))

	if err := e.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}
