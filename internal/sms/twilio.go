package sms

import (
	"context"
	"errors"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrEmptyResponse = errors.New("provider returned no message")

// MessageCreator is the part of the twilio api service used for sending.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type twilioSender struct {
	api MessageCreator
}

// NewTwilioSender creates a Sender backed by the Twilio REST api
func NewTwilioSender(accountSID, authToken string) Sender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewSenderWithAPI(client.Api)
}

func NewSenderWithAPI(api MessageCreator) Sender {
	return &twilioSender{api: api}
}

// Send makes one create-message call. The twilio client has no context support,
// so ctx is only checked before the call is made.
func (s *twilioSender) Send(ctx context.Context, body, from, to string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)
	params.SetFrom(from)
	params.SetTo(to)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("failed to create message: %w", err)
	}
	if resp == nil || resp.Sid == nil || *resp.Sid == "" {
		return "", ErrEmptyResponse
	}

	return *resp.Sid, nil
}
