package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aniladanir/waitlist-sms-service/internal/domain"
	"github.com/aniladanir/waitlist-sms-service/internal/metrics"
	"github.com/aniladanir/waitlist-sms-service/internal/phone"
	signupRepo "github.com/aniladanir/waitlist-sms-service/internal/repository/signup"
)

const DefaultMinFillDuration = 3 * time.Second

type SignupService interface {
	Signup(ctx context.Context, req domain.SignupRequest) (SequenceResult, error)
	Count(ctx context.Context) (int64, error)
	SentDeliveries(ctx context.Context) ([]domain.Delivery, error)
}

type SignupConfig struct {
	// MinFillDuration is the least time a human needs between form render and submit.
	MinFillDuration time.Duration
	Now             func() time.Time
}

type signupService struct {
	repo     signupRepo.Repository
	sequence SequenceSender
	cfg      SignupConfig
	logger   *slog.Logger
}

// NewSignupService creates the signup flow. repo may be nil, in which case
// signups are not persisted.
func NewSignupService(repo signupRepo.Repository, sequence SequenceSender, cfg SignupConfig, logger *slog.Logger) SignupService {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &signupService{
		repo:     repo,
		sequence: sequence,
		cfg:      cfg,
		logger:   logger,
	}
}

// Signup validates the request, persists it and texts the welcome sequence.
// Nothing is persisted or sent when validation fails, and nothing is sent
// when persisting fails.
func (s *signupService) Signup(ctx context.Context, req domain.SignupRequest) (SequenceResult, error) {
	if err := s.checkBot(req); err != nil {
		metrics.Signups.WithLabelValues("rejected").Inc()
		return SequenceResult{}, err
	}

	if strings.TrimSpace(req.Phone) == "" {
		metrics.Signups.WithLabelValues("rejected").Inc()
		return SequenceResult{}, ErrMissingPhone
	}

	to := phone.Normalize(req.Phone)
	if !phone.IsValidDomesticMobile(to) {
		metrics.Signups.WithLabelValues("rejected").Inc()
		return SequenceResult{}, ErrInvalidPhone
	}

	var signupID *int
	if s.repo != nil {
		record := &domain.Signup{
			Name:     strings.TrimSpace(req.Name),
			Business: strings.TrimSpace(req.Business),
			Email:    strings.TrimSpace(req.Email),
			Phone:    to,
		}
		if err := s.repo.Insert(ctx, record); err != nil {
			metrics.Signups.WithLabelValues("error").Inc()
			s.logger.Error("failed to insert signup", "error", err.Error())
			return SequenceResult{}, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		signupID = &record.ID
	}

	// a started sequence must not be cut short by the caller going away
	sendCtx := context.WithoutCancel(ctx)

	result, err := s.sequence.SendSequence(sendCtx, WelcomeMessages(req.Name), to)
	s.record(sendCtx, signupID, to, result)

	if err != nil {
		metrics.Signups.WithLabelValues("error").Inc()
		return result, err
	}

	metrics.Signups.WithLabelValues("success").Inc()
	return result, nil
}

func (s *signupService) Count(ctx context.Context) (int64, error) {
	if s.repo == nil {
		return 0, ErrPersistenceUnavailable
	}
	return s.repo.Count(ctx)
}

func (s *signupService) SentDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	if s.repo == nil {
		return nil, ErrPersistenceUnavailable
	}
	return s.repo.SentDeliveries(ctx)
}

func (s *signupService) checkBot(req domain.SignupRequest) error {
	if strings.TrimSpace(req.Website) != "" {
		s.logger.Warn("honeypot field filled")
		return ErrBotSuspected
	}

	rendered, ok := req.SignupTime.Time()
	if !ok {
		return nil
	}

	elapsed := s.cfg.Now().Sub(rendered)
	if elapsed < 0 {
		// clock skew between browser and server, treat as absent
		return nil
	}
	if elapsed < s.cfg.MinFillDuration {
		s.logger.Warn("form submitted too fast", "elapsed", elapsed.String())
		return ErrBotSuspected
	}

	return nil
}

// record stores delivery outcomes and caches provider ids. Failures here are
// logged only; the messages have already gone out.
func (s *signupService) record(ctx context.Context, signupID *int, to string, result SequenceResult) {
	if s.repo == nil || len(result.Outcomes) == 0 {
		return
	}

	now := s.cfg.Now().UTC()
	deliveries := make([]domain.Delivery, 0, len(result.Outcomes))
	for _, o := range result.Outcomes {
		d := domain.Delivery{
			SignupID:    signupID,
			PhoneNumber: to,
			Content:     o.Body,
			Status:      int(domain.DeliverySent),
			ProviderSID: o.SID,
			Attempts:    o.Attempts,
		}
		if o.Err != nil {
			d.Status = int(domain.DeliveryFailed)
			d.LastError = o.Err.Error()
		}
		deliveries = append(deliveries, d)

		if o.Err == nil && o.SID != "" {
			if err := s.repo.CacheDelivery(ctx, o.SID, now); err != nil {
				s.logger.Error("failed to cache delivery", "sid", o.SID, "error", err.Error())
			}
		}
	}

	if err := s.repo.RecordDeliveries(ctx, deliveries); err != nil {
		s.logger.Error("failed to record deliveries", "error", err.Error())
	}
}
