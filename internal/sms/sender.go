package sms

import (
	"context"
)

//go:generate mockgen -source=sender.go -destination=../mocks/mock_sender.go -package=mocks

// Sender delivers a single text message through the messaging provider.
// It returns the provider's message id on success.
type Sender interface {
	Send(ctx context.Context, body, from, to string) (string, error)
}
