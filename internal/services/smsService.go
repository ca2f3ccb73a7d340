package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Sender delivers a one-time passcode to a phone number.
type Sender interface {
	Send(ctx context.Context, phoneNumber, code string) error
}

func otpMessage(code string) string {
	return fmt.Sprintf("Your SnapECabs verification code is %s. It expires shortly.", code)
}

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: from}
}

func (s *TwilioSender) Send(_ context.Context, phoneNumber, code string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(s.from)
	params.SetTo(phoneNumber)
	params.SetBody(otpMessage(code))

	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio: %w", err)
	}
	if resp.ErrorCode != nil {
		msg := ""
		if resp.ErrorMessage != nil {
			msg = *resp.ErrorMessage
		}
		return fmt.Errorf("twilio error %d: %s", *resp.ErrorCode, msg)
	}

	sid := ""
	if resp.Sid != nil {
		sid = *resp.Sid
	}
	log.Info().Str("phone", phoneNumber).Str("sid", sid).Msg("OTP SMS queued")
	return nil
}

// LogSender writes the passcode to the log instead of delivering it. Use it
// for local development only.
type LogSender struct{}

func (LogSender) Send(_ context.Context, phoneNumber, code string) error {
	log.Warn().Str("phone", phoneNumber).Str("otp", code).Msg("OTP not delivered, log sender in use")
	return nil
}
