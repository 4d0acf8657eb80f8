package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aniladanir/waitlist-sms-service/internal/domain"
)

type fakeRepo struct {
	inserted   []domain.Signup
	deliveries []domain.Delivery
	cached     []string
	insertErr  error
	count      int64
}

func (f *fakeRepo) Insert(ctx context.Context, s *domain.Signup) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	s.ID = len(f.inserted) + 1
	f.inserted = append(f.inserted, *s)
	return nil
}

func (f *fakeRepo) Count(ctx context.Context) (int64, error) {
	return f.count, nil
}

func (f *fakeRepo) RecordDeliveries(ctx context.Context, deliveries []domain.Delivery) error {
	f.deliveries = append(f.deliveries, deliveries...)
	return nil
}

func (f *fakeRepo) SentDeliveries(ctx context.Context) ([]domain.Delivery, error) {
	var out []domain.Delivery
	for _, d := range f.deliveries {
		if d.Status == int(domain.DeliverySent) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) CacheDelivery(ctx context.Context, sid string, sentAt time.Time) error {
	f.cached = append(f.cached, sid)
	return nil
}

type fakeSequence struct {
	calls    int
	to       string
	messages []string
	ctxErr   error
	result   SequenceResult
	err      error
}

func (f *fakeSequence) SendSequence(ctx context.Context, messages []string, to string) (SequenceResult, error) {
	f.calls++
	f.to = to
	f.messages = messages
	f.ctxErr = ctx.Err()
	return f.result, f.err
}

var fixedNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestSignupService(repo *fakeRepo, seq *fakeSequence) SignupService {
	cfg := SignupConfig{
		MinFillDuration: DefaultMinFillDuration,
		Now:             func() time.Time { return fixedNow },
	}
	if repo == nil {
		return NewSignupService(nil, seq, cfg, discardLogger())
	}
	return NewSignupService(repo, seq, cfg, discardLogger())
}

func sentResult(bodies ...string) SequenceResult {
	var r SequenceResult
	for i, b := range bodies {
		r.Outcomes = append(r.Outcomes, Outcome{Body: b, SID: "SM" + string(rune('1'+i)), Attempts: 1})
	}
	return r
}

func TestSignupSuccess(t *testing.T) {
	repo := &fakeRepo{}
	seq := &fakeSequence{result: sentResult("a", "b", "c")}

	_, err := newTestSignupService(repo, seq).Signup(context.Background(), domain.SignupRequest{
		Name:     "Sam",
		Business: "Sam's Sparks",
		Email:    "sam@example.com",
		Phone:    "(04) 1234-5678",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Phone != "+61412345678" {
		t.Fatalf("unexpected inserted signups: %+v", repo.inserted)
	}
	if seq.calls != 1 || seq.to != "+61412345678" {
		t.Fatalf("unexpected sequence call: calls=%d to=%q", seq.calls, seq.to)
	}
	if seq.messages[0] != WelcomeMessages("Sam")[0] {
		t.Fatalf("unexpected first message: %q", seq.messages[0])
	}
	if len(repo.deliveries) != 3 || *repo.deliveries[0].SignupID != 1 {
		t.Fatalf("unexpected deliveries: %+v", repo.deliveries)
	}
	if len(repo.cached) != 3 {
		t.Fatalf("expected 3 cached sids, got %v", repo.cached)
	}
}

func TestSignupRejections(t *testing.T) {
	tooFast := domain.UnixMillis(fixedNow.Add(-time.Second).UnixMilli())

	tests := []struct {
		name string
		req  domain.SignupRequest
		want error
	}{
		{"missing phone", domain.SignupRequest{Name: "Sam"}, ErrMissingPhone},
		{"blank phone", domain.SignupRequest{Phone: "   "}, ErrMissingPhone},
		{"short phone", domain.SignupRequest{Phone: "041234567"}, ErrInvalidPhone},
		{"foreign phone", domain.SignupRequest{Phone: "+1 555 010 9999"}, ErrInvalidPhone},
		{"honeypot", domain.SignupRequest{Phone: "0412345678", Website: "http://spam"}, ErrBotSuspected},
		{"too fast", domain.SignupRequest{Phone: "0412345678", SignupTime: tooFast}, ErrBotSuspected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			seq := &fakeSequence{}

			_, err := newTestSignupService(repo, seq).Signup(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if len(repo.inserted) != 0 || seq.calls != 0 {
				t.Fatalf("rejected request must not persist or send: inserted=%d calls=%d", len(repo.inserted), seq.calls)
			}
		})
	}
}

func TestSignupTimeHeuristic(t *testing.T) {
	slowEnough := domain.UnixMillis(fixedNow.Add(-10 * time.Second).UnixMilli())
	future := domain.UnixMillis(fixedNow.Add(time.Minute).UnixMilli())

	for _, ts := range []domain.UnixMillis{slowEnough, future, 0, -5} {
		seq := &fakeSequence{}
		_, err := newTestSignupService(&fakeRepo{}, seq).Signup(context.Background(), domain.SignupRequest{
			Phone:      "0412345678",
			SignupTime: ts,
		})
		if err != nil {
			t.Fatalf("unexpected error for signupTime %v: %v", ts, err)
		}
	}
}

func TestSignupPersistenceError(t *testing.T) {
	repo := &fakeRepo{insertErr: errors.New("connection refused")}
	seq := &fakeSequence{}

	_, err := newTestSignupService(repo, seq).Signup(context.Background(), domain.SignupRequest{Phone: "0412345678"})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
	if seq.calls != 0 {
		t.Fatal("sequence must not be sent when persisting fails")
	}
}

func TestSignupDeliveryError(t *testing.T) {
	repo := &fakeRepo{}
	result := sentResult("a")
	lastErr := errors.New("provider down")
	result.Outcomes = append(result.Outcomes, Outcome{Body: "b", Attempts: 3, Err: lastErr})
	seq := &fakeSequence{result: result, err: &DeliveryError{Index: 1, Attempts: 3, Err: lastErr}}

	got, err := newTestSignupService(repo, seq).Signup(context.Background(), domain.SignupRequest{Phone: "0412345678"})

	var deliveryErr *DeliveryError
	if !errors.As(err, &deliveryErr) {
		t.Fatalf("expected DeliveryError, got %v", err)
	}
	if got.Sent() != 1 {
		t.Fatalf("sent = %d, want 1", got.Sent())
	}
	if len(repo.deliveries) != 2 || repo.deliveries[1].Status != int(domain.DeliveryFailed) || repo.deliveries[1].LastError != "provider down" {
		t.Fatalf("unexpected deliveries: %+v", repo.deliveries)
	}
	if len(repo.cached) != 1 {
		t.Fatalf("only delivered messages are cached, got %v", repo.cached)
	}
}

func TestSignupIgnoresCallerCancellation(t *testing.T) {
	seq := &fakeSequence{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestSignupService(nil, seq).Signup(ctx, domain.SignupRequest{Phone: "0412345678"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq.ctxErr != nil {
		t.Fatalf("sequence context should not be cancelled, got %v", seq.ctxErr)
	}
}

func TestSignupWithoutPersistence(t *testing.T) {
	seq := &fakeSequence{result: sentResult("a")}
	svc := newTestSignupService(nil, seq)

	if _, err := svc.Signup(context.Background(), domain.SignupRequest{Phone: "61412345678"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq.calls != 1 {
		t.Fatal("sequence should be sent without persistence")
	}
	if _, err := svc.Count(context.Background()); !errors.Is(err, ErrPersistenceUnavailable) {
		t.Fatalf("expected ErrPersistenceUnavailable, got %v", err)
	}
	if _, err := svc.SentDeliveries(context.Background()); !errors.Is(err, ErrPersistenceUnavailable) {
		t.Fatalf("expected ErrPersistenceUnavailable, got %v", err)
	}
}

func TestSignupCount(t *testing.T) {
	got, err := newTestSignupService(&fakeRepo{count: 42}, &fakeSequence{}).Count(context.Background())
	if err != nil || got != 42 {
		t.Fatalf("count=%d err=%v", got, err)
	}
}
