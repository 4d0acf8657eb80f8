package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aniladanir/waitlist-sms-service/internal/metrics"
	"github.com/aniladanir/waitlist-sms-service/internal/sms"
)

// Outcome describes the delivery of one message of a sequence.
type Outcome struct {
	Body     string
	SID      string
	Attempts int
	Err      error
}

type SequenceResult struct {
	Outcomes []Outcome
}

// Sent returns the number of messages delivered before the sequence stopped.
func (r SequenceResult) Sent() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

type SequenceSender interface {
	SendSequence(ctx context.Context, messages []string, to string) (SequenceResult, error)
}

type sequenceSender struct {
	client sms.Sender
	from   string
	policy Policy
	pacing time.Duration
	wait   WaitFunc
	logger *slog.Logger
}

func NewSequenceSender(client sms.Sender, from string, policy Policy, pacing time.Duration, wait WaitFunc, logger *slog.Logger) SequenceSender {
	if wait == nil {
		wait = Sleep
	}

	return &sequenceSender{
		client: client,
		from:   from,
		policy: policy,
		pacing: pacing,
		wait:   wait,
		logger: logger,
	}
}

// SendSequence delivers messages to one recipient in order. A message that
// exhausts its retries aborts the sequence; later messages are not attempted.
func (s *sequenceSender) SendSequence(ctx context.Context, messages []string, to string) (SequenceResult, error) {
	result := SequenceResult{Outcomes: make([]Outcome, 0, len(messages))}
	seqLogger := s.logger.With(slog.String("to", to))

	for i, body := range messages {
		msgLogger := seqLogger.With(slog.Int("index", i))

		var sid string
		attempts, err := s.policy.Do(ctx, func(ctx context.Context, attempt int) error {
			var sendErr error
			sid, sendErr = s.client.Send(ctx, body, s.from, to)
			if sendErr != nil {
				metrics.SMSAttempts.WithLabelValues("failed").Inc()
				msgLogger.Error("failed to send message", "attempt", attempt, "error", sendErr.Error())
				return sendErr
			}
			metrics.SMSAttempts.WithLabelValues("sent").Inc()
			return nil
		})

		result.Outcomes = append(result.Outcomes, Outcome{
			Body:     body,
			SID:      sid,
			Attempts: attempts,
			Err:      err,
		})

		if err != nil {
			msgLogger.Error("giving up on message sequence", "attempts", attempts)
			return result, &DeliveryError{Index: i, Attempts: attempts, Err: err}
		}

		msgLogger.Info("message sent", "sid", sid, "attempts", attempts)

		if i < len(messages)-1 {
			// pacing wait is best effort, the next message goes out regardless
			_ = s.wait(ctx, s.pacing)
		}
	}

	return result, nil
}
